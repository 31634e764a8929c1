package collector

import (
	"fmt"
	"strings"
	"time"

	"SignalSentinel/internal/model"
)

// Period is a lookback window in the provider notation ("6mo", "1y", "max").
type Period string

const (
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodYTD Period = "ytd"
	PeriodMax Period = "max"
)

var periodLengths = map[Period]time.Duration{
	Period1d:  24 * time.Hour,
	Period5d:  5 * 24 * time.Hour,
	Period1mo: 30 * 24 * time.Hour,
	Period3mo: 91 * 24 * time.Hour,
	Period6mo: 182 * 24 * time.Hour,
	Period1y:  365 * 24 * time.Hour,
	Period2y:  2 * 365 * 24 * time.Hour,
	Period5y:  5 * 365 * 24 * time.Hour,
	Period10y: 10 * 365 * 24 * time.Hour,
}

// ParsePeriod accepts the provider notation case-insensitively.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := periodLengths[p]; ok || p == PeriodYTD || p == PeriodMax {
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

// Since returns the first instant covered by the period, or the zero time for max.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodMax:
		return time.Time{}
	case PeriodYTD:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
	if d, ok := periodLengths[p]; ok {
		return now.Add(-d)
	}
	return now.Add(-periodLengths[Period6mo])
}

// presets pairs the dashboard periods with the bar size that keeps the
// chart readable.
var presets = map[Period]model.Interval{
	Period1d:  model.Interval1m,
	Period1mo: model.Interval15m,
	Period3mo: model.Interval1h,
	Period1y:  model.Interval1d,
	PeriodMax: model.Interval1wk,
}

// PresetFor returns the interval paired with a dashboard period.
// ok is false for periods without a preset.
func PresetFor(p Period) (interval model.Interval, ok bool) {
	interval, ok = presets[p]
	return interval, ok
}

// ScreenIntervalFor returns the bar size the screener uses for a period.
func ScreenIntervalFor(p Period) model.Interval {
	if p == PeriodMax {
		return model.Interval1wk
	}
	return model.Interval1d
}

// ValidateSymbol rejects tickers shorter than 3 characters and exchange
// suffixes shorter than 2 ("BBCA.J").
func ValidateSymbol(symbol string) error {
	if len(symbol) < 3 {
		return fmt.Errorf("invalid symbol %q: too short", symbol)
	}
	if i := strings.LastIndex(symbol, "."); i >= 0 && len(symbol)-i-1 < 2 {
		return fmt.Errorf("invalid symbol %q: exchange suffix too short", symbol)
	}
	return nil
}
