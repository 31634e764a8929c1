package collector

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"SignalSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Count int
	Bars  map[string][]model.OHLCV
	Err   error
	Calls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

// FetchBars returns the configured bars of symbol, or a generated wave
// around Price when none are set.
func (m *MockFetcher) FetchBars(_ context.Context, symbol string, _ Period, interval model.Interval) ([]model.OHLCV, error) {
	m.Calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	count := m.Count
	if count == 0 {
		count = 250
	}
	price := m.Price
	if price == 0 {
		price = 1000
	}
	return generateMockBars(price, count, interval.Duration()), nil
}

func generateMockBars(basePrice float64, count int, step time.Duration) []model.OHLCV {
	end := time.Now().UTC().Truncate(step)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/9) + float64(i-count/2)*0.0005)
		bars[i] = model.OHLCV{
			Time:   end.Add(-time.Duration(count-1-i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
