package calculator

import "math"

// StochasticSeries returns %K over kPeriod bars and %D, the dPeriod SMA of %K.
// A window whose highest high equals its lowest low leaves %K undefined.
func StochasticSeries(high, low, close []float64, kPeriod, dPeriod int) (k, d []float64) {
	n := len(close)
	k = undefinedSeries(n)
	if kPeriod <= 0 {
		return k, undefinedSeries(n)
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - kPeriod + 1; j <= i; j++ {
			if high[j] > hh {
				hh = high[j]
			}
			if low[j] < ll {
				ll = low[j]
			}
		}
		if hh == ll {
			continue
		}
		k[i] = 100 * (close[i] - ll) / (hh - ll)
	}
	return k, SMASeries(k, dPeriod)
}
