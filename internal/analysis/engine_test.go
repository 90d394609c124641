package analysis

import (
	"testing"
	"time"

	"CryptoBoard/internal/model"
)

func series(closes ...float64) *model.Series {
	s := &model.Series{Symbol: "BTC", Timeframe: "30d"}
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Candles = append(s.Candles, model.Candle{
			Time: start.AddDate(0, 0, i), Open: c, High: c * 1.01, Low: c * 0.99, Close: c,
		})
	}
	return s
}

func ramp(from, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + step*float64(i)
	}
	return out
}

func TestEvaluate_EmptySeriesLeavesFieldsNil(t *testing.T) {
	res := Evaluate(&model.Series{Symbol: "BTC"})
	r := res.Report
	if r.Trend != nil || r.Support != nil || r.Resistance != nil || r.Recommendation != nil {
		t.Errorf("expected all fields nil, got %+v", r)
	}
	if Evaluate(nil).Report == nil {
		t.Error("expected non-nil report for nil series")
	}
}

func TestEvaluate_SingleCandleOnlyRange(t *testing.T) {
	res := Evaluate(series(100))
	if res.Report.Support == nil || res.Report.Resistance == nil {
		t.Fatal("expected support and resistance from a single candle")
	}
	if res.Report.Trend != nil || res.Report.Recommendation != nil {
		t.Error("expected trend and recommendation to stay nil")
	}
}

func TestEvaluate_Uptrend(t *testing.T) {
	res := Evaluate(series(ramp(100, 2, 60)...))
	if got := *res.Report.Trend; got != TrendBullish {
		t.Errorf("expected bullish trend, got %q", got)
	}
	if len(res.Factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(res.Factors))
	}
	if res.TotalScore >= 0 {
		t.Errorf("expected negative score for extended rally, got %.3f", res.TotalScore)
	}
	if !res.Report.Support.LessThan(*res.Report.Resistance) {
		t.Errorf("expected support < resistance, got %s / %s", res.Report.Support, res.Report.Resistance)
	}
}

func TestEvaluate_Downtrend(t *testing.T) {
	res := Evaluate(series(ramp(300, -2, 60)...))
	if got := *res.Report.Trend; got != TrendBearish {
		t.Errorf("expected bearish trend, got %q", got)
	}
	if res.TotalScore <= 0 {
		t.Errorf("expected positive score for oversold market, got %.3f", res.TotalScore)
	}
}

func TestMapTier_AllBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		label string
	}{
		{2.0, "strong buy"},
		{1.2, "strong buy"},
		{0.6, "buy"},
		{0.3, "accumulate"},
		{0.0, "hold"},
		{-0.2, "hold"},
		{-0.5, "reduce"},
		{-1.2, "sell"},
		{-1.5, "strong sell"},
	}
	for _, tt := range tests {
		if got := mapTier(tt.score); got != tt.label {
			t.Errorf("score %.1f: expected %q, got %q", tt.score, tt.label, got)
		}
	}
}

func TestScoreTrend_Sideways(t *testing.T) {
	f, label := scoreTrend(indicators{Price: 100, MAFast: 100, MASlow: 100, RangeHigh: 110, RangeLow: 90})
	if label != TrendSideways || f.RawScore != 0 {
		t.Errorf("expected sideways/0, got %s/%.1f", label, f.RawScore)
	}
}
