package calculator

import (
	"errors"
	"math"

	"CryptoBoard/internal/model"
)

// CalculateRange scans the most recent lookback candles and returns the high and low.
// A non-positive lookback scans the whole series.
func CalculateRange(candles []model.Candle, lookback int) (high, low float64, err error) {
	if len(candles) == 0 {
		return 0, 0, errors.New("no candles provided")
	}
	n := len(candles)
	start := 0
	if lookback > 0 && n > lookback {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}
	return high, low, nil
}

// CalculateVolatility returns the population standard deviation of the last
// window closes as a percentage of their mean.
func CalculateVolatility(candles []model.Candle, window int) (float64, error) {
	if window <= 0 {
		return 0, errors.New("window must be positive")
	}
	if len(candles) == 0 {
		return 0, errors.New("no candles provided")
	}
	if len(candles) < window {
		window = len(candles)
	}
	closes := extractCloses(candles[len(candles)-window:])
	mean := 0.0
	for _, c := range closes {
		mean += c
	}
	mean /= float64(len(closes))
	if mean <= 0 {
		return 0, nil
	}
	variance := 0.0
	for _, c := range closes {
		variance += (c - mean) * (c - mean)
	}
	variance /= float64(len(closes))
	return math.Sqrt(variance) / mean * 100, nil
}
