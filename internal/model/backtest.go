package model

import (
	"strings"
	"time"
)

// Strategy selects the rule that turns an indicator frame into positions.
type Strategy int

const (
	StrategyUnknown Strategy = iota
	StrategyMACross
	StrategyMACDTrend
	StrategyRSITrend
	StrategyRSIOver
)

// Strategies lists the selectable strategies in display order.
var Strategies = []Strategy{StrategyMACross, StrategyMACDTrend, StrategyRSITrend, StrategyRSIOver}

func (s Strategy) String() string {
	switch s {
	case StrategyMACross:
		return "MA_CROSS"
	case StrategyMACDTrend:
		return "MACD_TREND"
	case StrategyRSITrend:
		return "RSI_TREND"
	case StrategyRSIOver:
		return "RSI_OVER"
	default:
		return "UNKNOWN"
	}
}

// ParseStrategy never fails: an unrecognized selector maps to StrategyUnknown,
// which the backtester treats as always flat.
func ParseStrategy(s string) Strategy {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MA_CROSS":
		return StrategyMACross
	case "MACD_TREND":
		return StrategyMACDTrend
	case "RSI_TREND":
		return StrategyRSITrend
	case "RSI_OVER":
		return StrategyRSIOver
	default:
		return StrategyUnknown
	}
}

// Trade is one paired entry and exit.
type Trade struct {
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	Profit     float64
}

// BacktestMetrics summarizes a strategy simulation.
// ProfitFactor is +Inf when there is profit but no loss and NaN when there are no trades.
type BacktestMetrics struct {
	StrategyReturn   float64
	BuyHoldReturn    float64
	WinRate          float64
	ProfitFactor     float64
	MaxDrawdown      float64
	Trades           int
	CommissionEvents int
}

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	Time     time.Time
	Position int
	Equity   float64
}

// BacktestResult is the full output of one backtest run.
type BacktestResult struct {
	Symbol   string
	Strategy Strategy
	Metrics  BacktestMetrics
	Trades   []Trade
	Equity   []EquityPoint
}
