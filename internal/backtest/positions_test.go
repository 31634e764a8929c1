package backtest

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalSentinel/internal/model"
)

func rsiRows(values ...float64) []model.IndicatorRow {
	rows := make([]model.IndicatorRow, len(values))
	for i, v := range values {
		rows[i].RSI = v
		rows[i].Close = 100
	}
	return rows
}

func TestRSIReversion_StateMachine(t *testing.T) {
	rows := rsiRows(50, 25, 40, 50, 75, 60, 50, 20, 50, 50)
	got := positions(rows, model.StrategyRSIOver, DefaultConfig())
	assert.Equal(t, []int{0, 0, 1, 1, 1, 0, 0, 0, 1, 1}, got)

	again := positions(rows, model.StrategyRSIOver, DefaultConfig())
	assert.Equal(t, got, again, "state must reset on every call")
}

func TestRSIReversion_UsesPreviousBar(t *testing.T) {
	// The oversold bar is the last one, so no entry can follow it.
	got := positions(rsiRows(50, 50, 10), model.StrategyRSIOver, DefaultConfig())
	assert.Equal(t, []int{0, 0, 0}, got)
}

func TestPositions_MemorylessRules(t *testing.T) {
	rows := []model.IndicatorRow{
		{MAShort: 2, MALong: 1, MACD: -1, MACDSignal: 0, RSI: 51},
		{MAShort: 1, MALong: 1, MACD: 1, MACDSignal: 0, RSI: 50},
	}
	cfg := DefaultConfig()
	assert.Equal(t, []int{1, 0}, positions(rows, model.StrategyMACross, cfg))
	assert.Equal(t, []int{0, 1}, positions(rows, model.StrategyMACDTrend, cfg))
	assert.Equal(t, []int{1, 0}, positions(rows, model.StrategyRSITrend, cfg))
	assert.Equal(t, []int{0, 0}, positions(rows, model.StrategyUnknown, cfg))
}

func TestTradeStats(t *testing.T) {
	winRate, pf := tradeStats([]model.Trade{{Profit: 10}, {Profit: -5}, {Profit: 5}, {Profit: 0}})
	assert.Equal(t, 0.5, winRate)
	assert.Equal(t, 3.0, pf)

	_, pf = tradeStats([]model.Trade{{Profit: 0}})
	assert.True(t, math.IsNaN(pf))

	winRate, pf = tradeStats(nil)
	assert.Zero(t, winRate)
	assert.True(t, math.IsNaN(pf))
}
