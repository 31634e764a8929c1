package collector

import (
	"context"
	"time"

	"SignalSentinel/internal/model"
)

// FetchObserver receives the outcome of every fetch.
type FetchObserver func(provider string, elapsed time.Duration, err error)

type instrumented struct {
	Fetcher
	observe FetchObserver
}

// Instrument wraps f so that every FetchBars call is reported to observe.
func Instrument(f Fetcher, observe FetchObserver) Fetcher {
	if observe == nil {
		return f
	}
	return &instrumented{Fetcher: f, observe: observe}
}

func (i *instrumented) FetchBars(ctx context.Context, symbol string, period Period, interval model.Interval) ([]model.OHLCV, error) {
	start := time.Now()
	bars, err := i.Fetcher.FetchBars(ctx, symbol, period, interval)
	i.observe(i.Fetcher.Name(), time.Since(start), err)
	return bars, err
}
