package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/pattern"
)

// DefaultMinRows is the smallest analyzable frame after warm-up rows are dropped.
const DefaultMinRows = 20

// Collector fetches price history and turns it into an analyzable frame.
type Collector struct {
	Fetcher  Fetcher
	Params   calculator.Params
	Location *time.Location
	MinRows  int
}

// NewCollector creates a new Collector. A nil location keeps provider timestamps.
func NewCollector(fetcher Fetcher, params calculator.Params, loc *time.Location, minRows int) *Collector {
	if minRows <= 0 {
		minRows = DefaultMinRows
	}
	return &Collector{Fetcher: fetcher, Params: params, Location: loc, MinRows: minRows}
}

// Collect fetches bars and computes indicators and pattern flags. Rows with
// any undefined indicator are dropped; fewer than MinRows remaining rows is
// reported as calculator.ErrInsufficientData.
func (c *Collector) Collect(ctx context.Context, symbol string, period Period, interval model.Interval) (*model.IndicatorFrame, error) {
	if err := ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	bars, err := c.Fetcher.FetchBars(ctx, symbol, period, interval)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s/%s: %w", symbol, period, interval, err)
	}
	bars = normalize(bars, c.Location)

	frame, err := calculator.Compute(bars, c.Params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	frame.Symbol = symbol
	frame.Interval = interval

	frame = pattern.Detect(frame, interval).DropIncomplete()
	if frame.Len() < c.MinRows {
		return nil, fmt.Errorf("%s: %w: %d complete rows, need %d",
			symbol, calculator.ErrInsufficientData, frame.Len(), c.MinRows)
	}
	return frame, nil
}

// normalize sorts bars, drops empty and duplicate bars and converts
// timestamps to loc.
func normalize(bars []model.OHLCV, loc *time.Location) []model.OHLCV {
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Open == 0 && b.High == 0 && b.Low == 0 && b.Close == 0 {
			continue
		}
		if loc != nil {
			b.Time = b.Time.In(loc)
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := make([]model.OHLCV, 0, len(out))
	for _, b := range out {
		if n := len(deduped); n > 0 && b.Time.Equal(deduped[n-1].Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}
