package calculator

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// RSISeries computes the Wilder-smoothed RSI (alpha = 1/window) for every index.
// The first bar contributes a zero gain and loss; values are defined from index window-1.
func RSISeries(closes []float64, window int) []float64 {
	out := undefinedSeries(len(closes))
	if window <= 0 {
		return out
	}
	alpha := 1.0 / float64(window)

	var avgGain, avgLoss float64
	for i := range closes {
		gain, loss := 0.0, 0.0
		if i > 0 {
			change := closes[i] - closes[i-1]
			if change > 0 {
				gain = change
			} else {
				loss = -change
			}
		}
		if i == 0 {
			avgGain, avgLoss = gain, loss
		} else {
			avgGain = alpha*gain + (1-alpha)*avgGain
			avgLoss = alpha*loss + (1-alpha)*avgLoss
		}
		if i < window-1 {
			continue
		}
		if avgLoss == 0 {
			out[i] = 100.0
			continue
		}
		rs := avgGain / avgLoss
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out
}

// CalculateRSI returns the most recent RSI value of the given bars.
func CalculateRSI(bars []model.OHLCV, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive")
	}
	if len(bars) < period {
		return 0, fmt.Errorf("%w: RSI(%d) needs %d bars, have %d", ErrInsufficientData, period, period, len(bars))
	}
	series := RSISeries(extractCloses(bars), period)
	return series[len(series)-1], nil
}
