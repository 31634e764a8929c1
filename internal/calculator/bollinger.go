package calculator

import "math"

// BollingerSeries returns the upper, middle and lower bands: a rolling mean
// of window closes plus and minus dev population standard deviations.
func BollingerSeries(closes []float64, window int, dev float64) (upper, middle, lower []float64) {
	n := len(closes)
	upper, lower = undefinedSeries(n), undefinedSeries(n)
	middle = SMASeries(closes, window)

	for i := range closes {
		mean := middle[i]
		if math.IsNaN(mean) {
			continue
		}
		var ss float64
		for j := i - window + 1; j <= i; j++ {
			d := closes[j] - mean
			ss += d * d
		}
		sd := math.Sqrt(ss / float64(window))
		upper[i] = mean + dev*sd
		lower[i] = mean - dev*sd
	}
	return upper, middle, lower
}
