package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
)

func dailyBars(n int) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := 1000 + float64(i%17)*3 + float64(i)
		bars[i] = model.OHLCV{
			Time: start.AddDate(0, 0, i), Open: p - 1, High: p + 5, Low: p - 5, Close: p, Volume: 1e6,
		}
	}
	return bars
}

func TestCollect_DropsWarmupRows(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	mock := &MockFetcher{Bars: map[string][]model.OHLCV{"BBCA.JK": dailyBars(150)}}
	c := NewCollector(mock, calculator.DefaultParams(), jakarta, 0)

	frame, err := c.Collect(context.Background(), "BBCA.JK", Period6mo, model.Interval1d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if frame.Symbol != "BBCA.JK" || frame.Interval != model.Interval1d {
		t.Errorf("frame not labelled: %s %s", frame.Symbol, frame.Interval)
	}
	if frame.Len() != 51 {
		t.Errorf("expected 150-99 complete rows, got %d", frame.Len())
	}
	for i, r := range frame.Rows {
		if !r.Complete() {
			t.Fatalf("row %d incomplete", i)
		}
		if r.Time.Location() != jakarta {
			t.Fatalf("row %d not converted to Asia/Jakarta", i)
		}
		if r.DoubleBottom && r.DoubleTop {
			t.Fatalf("row %d flagged both patterns", i)
		}
	}
}

func TestCollect_InsufficientData(t *testing.T) {
	tests := []struct {
		name string
		bars []model.OHLCV
	}{
		{"empty", nil},
		{"five bars", dailyBars(5)},
		{"below min rows after warm-up", dailyBars(110)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockFetcher{Bars: map[string][]model.OHLCV{"BBCA.JK": tt.bars}}
			c := NewCollector(mock, calculator.DefaultParams(), nil, DefaultMinRows)
			_, err := c.Collect(context.Background(), "BBCA.JK", Period6mo, model.Interval1d)
			if !errors.Is(err, calculator.ErrInsufficientData) {
				t.Fatalf("expected ErrInsufficientData, got %v", err)
			}
		})
	}
}

func TestCollect_InvalidSymbolSkipsFetch(t *testing.T) {
	mock := &MockFetcher{}
	c := NewCollector(mock, calculator.DefaultParams(), nil, 0)
	if _, err := c.Collect(context.Background(), "BB", Period6mo, model.Interval1d); err == nil {
		t.Fatal("expected validation error")
	}
	if mock.Calls.Load() != 0 {
		t.Error("fetcher should not be called for an invalid symbol")
	}
}

func TestCollect_FetchError(t *testing.T) {
	mock := &MockFetcher{Err: ErrNoData}
	c := NewCollector(mock, calculator.DefaultParams(), nil, 0)
	_, err := c.Collect(context.Background(), "BBCA.JK", Period6mo, model.Interval1d)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected wrapped ErrNoData, got %v", err)
	}
}

func TestNormalize(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := []model.OHLCV{
		{Time: t0.AddDate(0, 0, 2), Close: 3, Open: 3, High: 3, Low: 3},
		{Time: t0, Close: 1, Open: 1, High: 1, Low: 1},
		{Time: t0.AddDate(0, 0, 1)},
		{Time: t0, Close: 1.5, Open: 1, High: 2, Low: 1},
	}
	got := normalize(bars, nil)
	if len(got) != 2 {
		t.Fatalf("expected 2 bars, got %d: %+v", len(got), got)
	}
	if got[0].Close != 1.5 {
		t.Errorf("duplicate timestamp should keep the later bar, got %v", got[0].Close)
	}
	if got[1].Close != 3 {
		t.Errorf("bars not sorted, got %+v", got)
	}
}

func TestMockFetcher_Generated(t *testing.T) {
	m := &MockFetcher{Price: 500, Count: 30}
	bars, err := m.FetchBars(context.Background(), "ANY.JK", Period6mo, model.Interval1h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 30 {
		t.Fatalf("expected 30 bars, got %d", len(bars))
	}
	if gap := bars[1].Time.Sub(bars[0].Time); gap != time.Hour {
		t.Errorf("expected hourly spacing, got %v", gap)
	}
}

func TestInstrument_ReportsOutcome(t *testing.T) {
	var provider string
	var gotErr error
	calls := 0
	f := Instrument(&MockFetcher{Err: ErrNoData}, func(p string, _ time.Duration, err error) {
		provider, gotErr = p, err
		calls++
	})
	if f.Name() != "mock" {
		t.Errorf("wrapped fetcher should keep its name, got %q", f.Name())
	}
	_, _ = f.FetchBars(context.Background(), "BBCA.JK", Period6mo, model.Interval1d)
	if calls != 1 || provider != "mock" || !errors.Is(gotErr, ErrNoData) {
		t.Errorf("unexpected observation: calls=%d provider=%q err=%v", calls, provider, gotErr)
	}
}
