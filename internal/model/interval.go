package model

import (
	"fmt"
	"strings"
	"time"
)

// Interval is the sampling interval of a price series.
type Interval int

const (
	Interval1m Interval = iota
	Interval5m
	Interval15m
	Interval30m
	Interval1h
	Interval1d
	Interval1wk
	Interval1mo
)

// Intervals lists every supported interval in ascending order.
var Intervals = []Interval{
	Interval1m, Interval5m, Interval15m, Interval30m,
	Interval1h, Interval1d, Interval1wk, Interval1mo,
}

func (i Interval) String() string {
	switch i {
	case Interval1m:
		return "1m"
	case Interval5m:
		return "5m"
	case Interval15m:
		return "15m"
	case Interval30m:
		return "30m"
	case Interval1h:
		return "1h"
	case Interval1d:
		return "1d"
	case Interval1wk:
		return "1wk"
	case Interval1mo:
		return "1mo"
	default:
		return fmt.Sprintf("Interval(%d)", int(i))
	}
}

// ParseInterval accepts Yahoo-style codes plus the common aliases.
func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1m":
		return Interval1m, nil
	case "5m":
		return Interval5m, nil
	case "15m":
		return Interval15m, nil
	case "30m":
		return Interval30m, nil
	case "1h", "60m":
		return Interval1h, nil
	case "1d", "d", "daily":
		return Interval1d, nil
	case "1wk", "1w", "w", "weekly":
		return Interval1wk, nil
	case "1mo", "1month", "monthly":
		return Interval1mo, nil
	default:
		return 0, fmt.Errorf("unknown interval %q", s)
	}
}

// BinanceCode returns the kline interval code used by Binance.
func (i Interval) BinanceCode() string {
	switch i {
	case Interval1wk:
		return "1w"
	case Interval1mo:
		return "1M"
	default:
		return i.String()
	}
}

// Duration returns the nominal length of one bar.
func (i Interval) Duration() time.Duration {
	switch i {
	case Interval1m:
		return time.Minute
	case Interval5m:
		return 5 * time.Minute
	case Interval15m:
		return 15 * time.Minute
	case Interval30m:
		return 30 * time.Minute
	case Interval1h:
		return time.Hour
	case Interval1d:
		return 24 * time.Hour
	case Interval1wk:
		return 7 * 24 * time.Hour
	case Interval1mo:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Intraday reports whether bars are shorter than a trading day.
func (i Interval) Intraday() bool {
	return i < Interval1d
}
