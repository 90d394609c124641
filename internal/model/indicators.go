package model

import "strconv"

// RSI is a relative strength reading. Ready is false when the series was too
// short to produce one.
type RSI struct {
	Value float64
	Ready bool
}

// String renders the reading with one decimal, or "n/a" when not ready.
func (r RSI) String() string {
	if !r.Ready {
		return "n/a"
	}
	return strconv.FormatFloat(r.Value, 'f', 1, 64)
}

// OrNeutral returns the reading, or the neutral 50 when not ready.
func (r RSI) OrNeutral() float64 {
	if !r.Ready {
		return 50
	}
	return r.Value
}

// KlineIndicators holds the indicators shown under the candlestick chart.
type KlineIndicators struct {
	MA5        float64
	MA10       float64
	MA20       float64
	RSI        RSI
	Volatility float64 // stddev of the last 10 closes, as a percentage of their mean
}
