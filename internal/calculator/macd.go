package calculator

// MACDSeries returns the MACD line (fast EMA minus slow EMA), its signal line
// (EMA of the MACD line) and the histogram (MACD minus signal).
func MACDSeries(closes []float64, fast, slow, signal int) (macd, signalLine, hist []float64) {
	emaFast := EMASeries(closes, fast)
	emaSlow := EMASeries(closes, slow)

	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signalLine = EMASeries(macd, signal)

	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = macd[i] - signalLine[i]
	}
	return macd, signalLine, hist
}
