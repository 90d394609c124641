package calculator

import (
	"errors"

	"CryptoBoard/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateMA returns the period moving average of candle closes.
func CalculateMA(candles []model.Candle, period int) (float64, error) {
	return CalculateSMA(extractCloses(candles), period)
}

// MAOrLast returns the period moving average, falling back to the last close
// when the series is too short.
func MAOrLast(candles []model.Candle, period int) float64 {
	if ma, err := CalculateMA(candles, period); err == nil {
		return ma
	}
	if len(candles) == 0 {
		return 0
	}
	return candles[len(candles)-1].Close
}

func extractCloses(candles []model.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
