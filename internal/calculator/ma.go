package calculator

import (
	"errors"
	"math"

	"SignalSentinel/internal/model"
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

// SMASeries returns the rolling simple moving average for every index.
// Indices before the window is full, or whose window holds an undefined value, are NaN.
func SMASeries(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	for i := range values {
		if i+1 < period {
			continue
		}
		sma, err := CalculateSMA(values[:i+1], period)
		if err != nil {
			continue
		}
		// NaN inputs propagate through the sum.
		out[i] = sma
	}
	return out
}

// EMASeries returns the recursive exponential moving average with alpha = 2/(period+1).
// The average is seeded with the first defined value and reported once period
// defined observations have been seen; leading undefined values are skipped.
func EMASeries(values []float64, period int) []float64 {
	out := undefinedSeries(len(values))
	if period <= 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)
	var ema float64
	seen := 0
	for i, v := range values {
		if !model.Defined(v) {
			continue
		}
		if seen == 0 {
			ema = v
		} else {
			ema = alpha*v + (1-alpha)*ema
		}
		seen++
		if seen >= period {
			out[i] = ema
		}
	}
	return out
}

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

func extractCloses(bars []model.OHLCV) []float64 {
	return model.Closes(bars)
}
