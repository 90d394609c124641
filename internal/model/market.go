package model

import "time"

// Candle represents a single OHLCV bar.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is a chart series for one instrument and timeframe.
type Series struct {
	Symbol    string
	Timeframe string
	Candles   []Candle
}

// Closes returns the close prices in series order.
func (s *Series) Closes() []float64 {
	if s == nil {
		return nil
	}
	closes := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		closes[i] = c.Close
	}
	return closes
}

// Last returns the most recent candle.
func (s *Series) Last() (Candle, bool) {
	if s == nil || len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// Len returns the number of candles, zero for a nil series.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Candles)
}
