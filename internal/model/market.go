package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the raw bars of one instrument as returned by a provider.
type PriceSeries struct {
	Symbol    string
	Interval  Interval
	Period    string
	Bars      []OHLCV
	FetchedAt time.Time
}

// Closes returns the close column of the given bars.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
