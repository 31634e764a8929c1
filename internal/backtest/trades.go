package backtest

import (
	"math"

	"SignalSentinel/internal/model"
)

// pairTrades matches entries (flat to long) with the following exit.
// Change detection starts at the second row; an exit with no prior entry and
// an entry still open at the end are ignored.
func pairTrades(rows []model.IndicatorRow, held []int) []model.Trade {
	var trades []model.Trade
	var entry *model.IndicatorRow
	for i := 1; i < len(rows); i++ {
		if held[i] == held[i-1] {
			continue
		}
		if held[i] == 1 {
			entry = &rows[i]
			continue
		}
		if entry == nil {
			continue
		}
		trades = append(trades, model.Trade{
			EntryTime:  entry.Time,
			ExitTime:   rows[i].Time,
			EntryPrice: entry.Close,
			ExitPrice:  rows[i].Close,
			Profit:     rows[i].Close - entry.Close,
		})
		entry = nil
	}
	return trades
}

// tradeStats returns the win rate and profit factor. The profit factor is
// +Inf when there is profit and no loss, NaN when both are zero or there are
// no trades.
func tradeStats(trades []model.Trade) (winRate, profitFactor float64) {
	if len(trades) == 0 {
		return 0, math.NaN()
	}
	var wins int
	var grossProfit, grossLoss float64
	for _, t := range trades {
		switch {
		case t.Profit > 0:
			wins++
			grossProfit += t.Profit
		case t.Profit < 0:
			grossLoss -= t.Profit
		}
	}
	winRate = float64(wins) / float64(len(trades))
	switch {
	case grossLoss > 0:
		profitFactor = grossProfit / grossLoss
	case grossProfit > 0:
		profitFactor = math.Inf(1)
	default:
		profitFactor = math.NaN()
	}
	return winRate, profitFactor
}
