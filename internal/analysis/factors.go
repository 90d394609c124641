package analysis

import (
	"fmt"
	"math"
)

// Factor is a single scored input to the recommendation.
type Factor struct {
	Name       string
	RawScore   float64
	Weight     float64
	Weighted   float64
	Commentary string
}

// indicators is the computed input to factor scoring.
type indicators struct {
	Price     float64
	MAFast    float64
	MASlow    float64
	RSI       float64
	RangeHigh float64
	RangeLow  float64
}

// scoreMADeviation scores how far price sits from the slow moving average.
// Weight: 0.40
func scoreMADeviation(ind indicators) Factor {
	if ind.MASlow == 0 {
		return Factor{Name: "ma_deviation", Weight: 0.40, Commentary: "MA unavailable"}
	}
	deviation := (ind.Price - ind.MASlow) / ind.MASlow * 100

	var score float64
	switch {
	case deviation <= -20:
		score = 2.0
	case deviation <= -10:
		score = 1.5
	case deviation <= -5:
		score = 1.0
	case deviation <= 0:
		score = 0.5
	case deviation <= 5:
		score = 0
	case deviation <= 10:
		score = -0.5
	case deviation <= 15:
		score = -1.0
	case deviation <= 20:
		score = -1.5
	default:
		score = -2.0
	}

	return Factor{
		Name:       "ma_deviation",
		RawScore:   score,
		Weight:     0.40,
		Weighted:   score * 0.40,
		Commentary: fmt.Sprintf("deviation %+.1f%%", deviation),
	}
}

// scoreRSI scores the RSI(14) reading.
// Weight: 0.35
func scoreRSI(ind indicators) Factor {
	rsi := ind.RSI
	var score float64
	switch {
	case rsi <= 25:
		score = 2.0
	case rsi <= 30:
		score = 1.5
	case rsi <= 40:
		score = 1.0
	case rsi <= 45:
		score = 0.5
	case rsi <= 55:
		score = 0
	case rsi <= 60:
		score = -0.5
	case rsi <= 70:
		score = -1.0
	case rsi <= 80:
		score = -1.5
	default:
		score = -2.0
	}

	return Factor{
		Name:       "rsi",
		RawScore:   score,
		Weight:     0.35,
		Weighted:   score * 0.35,
		Commentary: fmt.Sprintf("RSI=%.0f", rsi),
	}
}

// scoreTrend scores MA alignment and proximity to the range extremes.
// Weight: 0.25
// Bull alignment: price > fast MA > slow MA
// Bear alignment: price < fast MA < slow MA
func scoreTrend(ind indicators) (Factor, string) {
	bullish := ind.Price > ind.MAFast && ind.MAFast > ind.MASlow
	bearish := ind.Price < ind.MAFast && ind.MAFast < ind.MASlow

	nearHigh := ind.RangeHigh > 0 && math.Abs(ind.Price-ind.RangeHigh)/ind.RangeHigh < 0.01
	nearLow := ind.RangeLow > 0 && math.Abs(ind.Price-ind.RangeLow)/ind.RangeLow < 0.01

	var score float64
	var commentary, label string

	switch {
	case bullish && nearHigh:
		score, commentary, label = 1.5, "bull alignment at range high", TrendBullish
	case bullish:
		score, commentary, label = 1.0, "bull alignment", TrendBullish
	case bearish && nearLow:
		score, commentary, label = -1.0, "bear alignment at range low", TrendBearish
	case bearish:
		score, commentary, label = -0.5, "bear alignment", TrendBearish
	default:
		score, commentary, label = 0, "ranging", TrendSideways
	}

	return Factor{
		Name:       "trend",
		RawScore:   score,
		Weight:     0.25,
		Weighted:   score * 0.25,
		Commentary: commentary,
	}, label
}
