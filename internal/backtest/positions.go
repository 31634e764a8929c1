package backtest

import (
	"log"

	"SignalSentinel/internal/model"
)

// positions returns the 0/1 signal of every row for strategy s.
func positions(rows []model.IndicatorRow, s model.Strategy, cfg Config) []int {
	out := make([]int, len(rows))
	switch s {
	case model.StrategyMACross:
		for i, r := range rows {
			out[i] = boolToPos(r.MAShort > r.MALong)
		}
	case model.StrategyMACDTrend:
		for i, r := range rows {
			out[i] = boolToPos(r.MACD > r.MACDSignal)
		}
	case model.StrategyRSITrend:
		for i, r := range rows {
			out[i] = boolToPos(r.RSI > cfg.RSITrendLevel)
		}
	case model.StrategyRSIOver:
		return rsiReversion(rows, cfg)
	default:
		log.Printf("[WARN] unknown strategy %s, staying flat", s)
	}
	return out
}

type holding int

const (
	flat holding = iota
	long
)

// rsiReversion buys after a bar closes oversold and sells after a bar closes
// overbought. The state starts flat on every call.
func rsiReversion(rows []model.IndicatorRow, cfg Config) []int {
	out := make([]int, len(rows))
	state := flat
	for i := 1; i < len(rows); i++ {
		prevRSI := rows[i-1].RSI
		switch state {
		case flat:
			if prevRSI < cfg.RSIOversold {
				state = long
			}
		case long:
			if prevRSI > cfg.RSIOverbought {
				state = flat
			}
		}
		if state == long {
			out[i] = 1
		}
	}
	return out
}

func boolToPos(b bool) int {
	if b {
		return 1
	}
	return 0
}
