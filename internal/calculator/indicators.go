package calculator

import "CryptoBoard/internal/model"

// KlineIndicators computes the indicator row shown beneath the kline chart.
func KlineIndicators(candles []model.Candle) model.KlineIndicators {
	ind := model.KlineIndicators{
		MA5:  MAOrLast(candles, 5),
		MA10: MAOrLast(candles, 10),
		MA20: MAOrLast(candles, 20),
	}
	if rsi, err := CalculateRSI(candles, 14); err == nil {
		ind.RSI = rsi
	}
	if vol, err := CalculateVolatility(candles, 10); err == nil {
		ind.Volatility = vol
	}
	return ind
}
