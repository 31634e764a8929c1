package analysis

import (
	"math"

	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

// Summarize builds the dashboard figures of the latest row of frame.
// ChangePct is undefined for a single-row frame.
func Summarize(frame *model.IndicatorFrame, th strategy.Thresholds) model.Summary {
	last, ok := frame.Last()
	if !ok {
		return model.Summary{ChangePct: model.Undefined(), RSI: model.Undefined(), RSIState: model.RSINeutral, MACDCross: model.CrossNone}
	}
	s := model.Summary{
		Close:       last.Close,
		ChangePct:   model.Undefined(),
		RSI:         last.RSI,
		RSIState:    rsiState(last.RSI, th),
		MACDBullish: last.MACD > last.MACDSignal,
		MACDCross:   model.CrossNone,
		Bullish:     last.MAMedium > last.MALong,
	}
	if prev, ok := frame.Prev(); ok {
		if prev.Close != 0 {
			s.ChangePct = (last.Close/prev.Close - 1) * 100
		}
		s.MACDCross = crossOf(prev.MACD, prev.MACDSignal, last.MACD, last.MACDSignal)
	}

	bars := make([]model.OHLCV, frame.Len())
	for i, r := range frame.Rows {
		bars[i] = r.OHLCV
	}
	if high, low, err := calculator.CalculateRange(bars, 0); err == nil {
		s.RangeHigh, s.RangeLow = high, low
		if pos, err := calculator.CalculatePosition(last.Close, high, low); err == nil {
			s.RangePos = pos
		} else {
			s.RangePos = math.NaN()
		}
	}
	return s
}

func rsiState(rsi float64, th strategy.Thresholds) model.RSIState {
	switch {
	case rsi > th.RSIOverbought:
		return model.RSIOverbought
	case rsi < th.RSIOversold:
		return model.RSIOversold
	default:
		return model.RSINeutral
	}
}

// crossOf compares line a against line b on two consecutive rows.
func crossOf(prevA, prevB, lastA, lastB float64) model.Cross {
	switch {
	case lastA > lastB && prevA < prevB:
		return model.CrossUp
	case lastA < lastB && prevA > prevB:
		return model.CrossDown
	default:
		return model.CrossNone
	}
}
