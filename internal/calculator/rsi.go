package calculator

import (
	"errors"
	"math"

	"CryptoBoard/internal/model"
)

// wilder is Wilder's running average: a plain mean over the first period
// samples, then avg = (avg*(period-1) + x) / period.
type wilder struct {
	period int
	seen   int
	avg    float64
}

func (w *wilder) add(x float64) {
	p := float64(w.period)
	if w.seen < w.period {
		w.avg += x / p
	} else {
		w.avg = (w.avg*(p-1) + x) / p
	}
	w.seen++
}

// CalculateRSI computes the Wilder-smoothed RSI of the closes. The reading
// is not Ready until period+1 candles are available. A series with no
// movement reads 50, one with no losses reads 100.
func CalculateRSI(candles []model.Candle, period int) (model.RSI, error) {
	if period <= 0 {
		return model.RSI{}, errors.New("period must be positive")
	}
	if len(candles) <= period {
		return model.RSI{}, nil
	}

	gains, losses := wilder{period: period}, wilder{period: period}
	for i := 1; i < len(candles); i++ {
		delta := candles[i].Close - candles[i-1].Close
		gains.add(math.Max(delta, 0))
		losses.add(math.Max(-delta, 0))
	}

	switch {
	case gains.avg == 0 && losses.avg == 0:
		return model.RSI{Value: 50, Ready: true}, nil
	case losses.avg == 0:
		return model.RSI{Value: 100, Ready: true}, nil
	}
	rs := gains.avg / losses.avg
	return model.RSI{Value: 100 - 100/(1+rs), Ready: true}, nil
}
