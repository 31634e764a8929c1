// Package backtest simulates a long-only strategy on an indicator frame and
// reports return, drawdown and trade statistics against buy-and-hold.
package backtest

import (
	"fmt"
	"math"

	"SignalSentinel/internal/model"
)

// Config holds the constants used by the simulation.
type Config struct {
	Commission    float64 `yaml:"commission"`
	RSIOversold   float64 `yaml:"rsi_oversold"`
	RSIOverbought float64 `yaml:"rsi_overbought"`
	RSITrendLevel float64 `yaml:"rsi_trend_level"`
}

// DefaultConfig returns a 0.1% commission and RSI levels 30/70/50.
func DefaultConfig() Config {
	return Config{Commission: 0.001, RSIOversold: 30, RSIOverbought: 70, RSITrendLevel: 50}
}

func (c Config) Validate() error {
	if c.Commission < 0 || c.Commission >= 1 {
		return fmt.Errorf("commission must be in [0,1), got %g", c.Commission)
	}
	if c.RSIOversold >= c.RSIOverbought {
		return fmt.Errorf("rsi oversold (%g) must be below overbought (%g)", c.RSIOversold, c.RSIOverbought)
	}
	return nil
}

// Run simulates strategy s on frame. The frame is not modified and the call
// keeps no state between invocations.
//
// The signal of bar i sets the position held during bar i+1, so bar 0 is
// dropped. Returns and commission are booked from the second remaining bar
// on, a commission being charged on every bar whose position differs from
// the previous one.
func Run(frame *model.IndicatorFrame, s model.Strategy, cfg Config) *model.BacktestResult {
	result := &model.BacktestResult{
		Strategy: s,
		Metrics:  model.BacktestMetrics{ProfitFactor: math.NaN()},
	}
	if frame == nil {
		return result
	}
	result.Symbol = frame.Symbol
	if frame.Len() < 2 {
		return result
	}

	signal := positions(frame.Rows, s, cfg)
	rows := frame.Rows[1:]
	held := signal[:len(signal)-1]

	equity := 1.0
	peak := math.Inf(-1)
	maxDD := 0.0
	result.Equity = make([]model.EquityPoint, len(rows))
	result.Equity[0] = model.EquityPoint{Time: rows[0].Time, Position: held[0], Equity: equity}

	for i := 1; i < len(rows); i++ {
		ret := (rows[i].Close/rows[i-1].Close - 1) * float64(held[i])
		if held[i] != held[i-1] {
			ret -= cfg.Commission
			result.Metrics.CommissionEvents++
		}
		equity *= 1 + ret
		result.Equity[i] = model.EquityPoint{Time: rows[i].Time, Position: held[i], Equity: equity}

		peak = math.Max(peak, equity)
		if dd := (equity - peak) / peak; dd < maxDD {
			maxDD = dd
		}
	}

	result.Trades = pairTrades(rows, held)
	result.Metrics.Trades = len(result.Trades)
	result.Metrics.WinRate, result.Metrics.ProfitFactor = tradeStats(result.Trades)
	result.Metrics.StrategyReturn = equity - 1
	result.Metrics.BuyHoldReturn = rows[len(rows)-1].Close/rows[0].Close - 1
	result.Metrics.MaxDrawdown = maxDD
	return result
}

// RunAll runs every known strategy on frame, in model.Strategies order.
func RunAll(frame *model.IndicatorFrame, cfg Config) []*model.BacktestResult {
	results := make([]*model.BacktestResult, 0, len(model.Strategies))
	for _, s := range model.Strategies {
		results = append(results, Run(frame, s, cfg))
	}
	return results
}
