package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

func summaryRow(close, rsi, macd, signal, maMedium, maLong float64) model.IndicatorRow {
	return model.IndicatorRow{
		OHLCV:      model.OHLCV{Close: close, High: close + 10, Low: close - 10},
		RSI:        rsi,
		MACD:       macd,
		MACDSignal: signal,
		MAMedium:   maMedium,
		MALong:     maLong,
	}
}

func TestSummarize_LatestRow(t *testing.T) {
	frame := &model.IndicatorFrame{Rows: []model.IndicatorRow{
		summaryRow(200, 50, 1, 2, 100, 90),
		summaryRow(180, 50, -1, 0, 100, 90),
		summaryRow(198, 75, 2, 1, 100, 90),
	}}

	s := Summarize(frame, strategy.DefaultThresholds())
	assert.Equal(t, 198.0, s.Close)
	assert.InDelta(t, 10.0, s.ChangePct, 1e-9)
	assert.Equal(t, model.RSIOverbought, s.RSIState)
	assert.True(t, s.MACDBullish)
	assert.Equal(t, model.CrossUp, s.MACDCross)
	assert.True(t, s.Bullish)
	assert.Equal(t, 210.0, s.RangeHigh)
	assert.Equal(t, 170.0, s.RangeLow)
	assert.InDelta(t, 0.7, s.RangePos, 1e-9)
}

func TestSummarize_RSIStatesAndCross(t *testing.T) {
	th := strategy.DefaultThresholds()
	tests := []struct {
		name      string
		prev      model.IndicatorRow
		last      model.IndicatorRow
		wantState model.RSIState
		wantCross model.Cross
	}{
		{"oversold cross down", summaryRow(10, 40, 2, 1, 1, 2), summaryRow(10, 20, 0, 1, 1, 2), model.RSIOversold, model.CrossDown},
		{"neutral sideways", summaryRow(10, 40, 2, 1, 1, 2), summaryRow(10, 50, 3, 1, 1, 2), model.RSINeutral, model.CrossNone},
		{"boundary is neutral", summaryRow(10, 40, 1, 1, 1, 2), summaryRow(10, th.RSIOverbought, 2, 1, 1, 2), model.RSINeutral, model.CrossNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(&model.IndicatorFrame{Rows: []model.IndicatorRow{tt.prev, tt.last}}, th)
			assert.Equal(t, tt.wantState, s.RSIState)
			assert.Equal(t, tt.wantCross, s.MACDCross)
			assert.False(t, s.Bullish)
		})
	}
}

func TestSummarize_SingleAndEmpty(t *testing.T) {
	s := Summarize(&model.IndicatorFrame{Rows: []model.IndicatorRow{summaryRow(10, 50, 0, 0, 0, 0)}}, strategy.DefaultThresholds())
	assert.True(t, math.IsNaN(s.ChangePct))
	assert.Equal(t, model.CrossNone, s.MACDCross)

	empty := Summarize(nil, strategy.DefaultThresholds())
	assert.True(t, math.IsNaN(empty.RSI))
	assert.Equal(t, model.RSINeutral, empty.RSIState)
}

func TestUnavailableClassifier(t *testing.T) {
	acc, label := UnavailableClassifier{}.Predict(nil)
	assert.Zero(t, acc)
	assert.Equal(t, model.DirectionUnavailable, label)
}
