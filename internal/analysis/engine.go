// Package analysis derives a technical analysis report from a candle series.
package analysis

import (
	"CryptoBoard/internal/calculator"
	"CryptoBoard/internal/model"

	"github.com/shopspring/decimal"
)

// Trend labels.
const (
	TrendBullish  = "bullish"
	TrendBearish  = "bearish"
	TrendSideways = "sideways"
)

const (
	fastPeriod     = 20
	slowPeriod     = 50
	rangeLookback  = 30
	minCandlesUsed = 2
)

// Tiers maps a total score to a recommendation, highest first.
var Tiers = []struct {
	MinScore float64
	Label    string
}{
	{1.2, "strong buy"},
	{0.6, "buy"},
	{0.2, "accumulate"},
	{-0.2, "hold"},
	{-0.6, "reduce"},
	{-1.2, "sell"},
}

// DefaultTier is the recommendation for scores below every tier.
const DefaultTier = "strong sell"

func mapTier(totalScore float64) string {
	for _, t := range Tiers {
		if totalScore >= t.MinScore {
			return t.Label
		}
	}
	return DefaultTier
}

// Result carries the report together with the factors behind it.
type Result struct {
	Report     *model.AnalysisReport
	Factors    []Factor
	TotalScore float64
}

// Evaluate computes the analysis for a series. Fields that cannot be derived
// are left nil so the display falls back to its placeholders.
func Evaluate(s *model.Series) *Result {
	res := &Result{Report: &model.AnalysisReport{}}
	last, ok := s.Last()
	if !ok {
		return res
	}

	if high, low, err := calculator.CalculateRange(s.Candles, rangeLookback); err == nil {
		support := decimal.NewFromFloat(low).Round(2)
		resistance := decimal.NewFromFloat(high).Round(2)
		res.Report.Support = &support
		res.Report.Resistance = &resistance
	}

	if s.Len() < minCandlesUsed {
		return res
	}

	ind := indicators{
		Price:  last.Close,
		MAFast: calculator.MAOrLast(s.Candles, fastPeriod),
		MASlow: calculator.MAOrLast(s.Candles, slowPeriod),
	}
	if rsi, err := calculator.CalculateRSI(s.Candles, 14); err == nil {
		ind.RSI = rsi.OrNeutral()
	}
	ind.RangeHigh, ind.RangeLow, _ = calculator.CalculateRange(s.Candles, rangeLookback)

	f1 := scoreMADeviation(ind)
	f2 := scoreRSI(ind)
	f3, trend := scoreTrend(ind)

	res.Factors = []Factor{f1, f2, f3}
	res.TotalScore = f1.Weighted + f2.Weighted + f3.Weighted

	recommendation := mapTier(res.TotalScore)
	res.Report.Trend = &trend
	res.Report.Recommendation = &recommendation
	return res
}
