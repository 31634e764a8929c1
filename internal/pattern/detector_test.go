package pattern

import (
	"math"
	"testing"

	"SignalSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wShape builds 60 closes: a slide to bottom1 = 100 at bar 29, a rally to the
// neckline at 115 and a decline back to bottom2 = 101 at bar 59.
func wShape() []float64 {
	closes := make([]float64, 60)
	for i := 0; i < 30; i++ {
		closes[i] = 110 - float64(i)*10/29
	}
	for i := 30; i < 45; i++ {
		closes[i] = 100 + float64(i-29)
	}
	for i := 45; i < 60; i++ {
		closes[i] = 115 - float64(i-44)*14/15
	}
	return closes
}

func TestDetectCloses_DoubleBottomScenario(t *testing.T) {
	closes := wShape()
	require.Equal(t, 100.0, closes[29])
	require.Equal(t, 115.0, closes[44])
	require.Equal(t, 101.0, closes[59])

	db, dt := DetectCloses(closes, ParamsFor(model.Interval1d))
	assert.True(t, db[59], "double bottom expected at bar 59")
	assert.False(t, dt[59])
}

func TestDetectCloses_RisingSeriesHasNoDoubleBottom(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	db, _ := DetectCloses(closes, DefaultParams)
	for i, flag := range db {
		assert.False(t, flag, "unexpected double bottom at bar %d", i)
	}
}

func TestDetectCloses_DoubleTop(t *testing.T) {
	// Mirror of the W: peak at 100 on bar 29, dip to 85, back up to 99.
	w := wShape()
	closes := make([]float64, len(w))
	for i, c := range w {
		closes[i] = 200 - c
	}
	db, dt := DetectCloses(closes, DefaultParams)
	assert.True(t, dt[59])
	assert.False(t, db[59])
}

func TestDetectCloses_ShortSeries(t *testing.T) {
	p := ParamsFor(model.Interval1h)
	closes := make([]float64, p.Distance)
	for i := range closes {
		closes[i] = 100 + math.Sin(float64(i))
	}
	db, dt := DetectCloses(closes, p)
	require.Len(t, db, len(closes))
	require.Len(t, dt, len(closes))
	for i := range closes {
		assert.False(t, db[i] || dt[i], "no flag expected at bar %d", i)
	}
}

func TestDetectCloses_NeverBothFlags(t *testing.T) {
	closes := make([]float64, 400)
	price := 100.0
	for i := range closes {
		price *= 1 + 0.015*math.Sin(float64(i)*0.37) + 0.01*math.Cos(float64(i)*1.3)
		closes[i] = price
	}
	for _, interval := range model.Intervals {
		db, dt := DetectCloses(closes, ParamsFor(interval))
		for i := range closes {
			assert.False(t, db[i] && dt[i], "%s: both flags at bar %d", interval, i)
		}
	}
}

func TestDetectCloses_AmbiguousBarKeepsTighterMatch(t *testing.T) {
	loose := Params{Distance: 4, Threshold: 0.5, ReversalFactor: 0.01}

	db, dt := DetectCloses([]float64{10, 12, 11, 11, 11}, loose)
	assert.False(t, db[4])
	assert.True(t, dt[4], "top gap 1/12 is tighter than bottom gap 1/10")

	db, dt = DetectCloses([]float64{10, 15, 12, 12, 12}, loose)
	assert.False(t, db[4], "equal gaps clear both flags")
	assert.False(t, dt[4], "equal gaps clear both flags")
}

func TestParamsFor_Table(t *testing.T) {
	tests := []struct {
		interval model.Interval
		want     Params
	}{
		{model.Interval1m, Params{240, 0.0025, 0.004}},
		{model.Interval15m, Params{80, 0.005, 0.007}},
		{model.Interval1h, Params{60, 0.005, 0.007}},
		{model.Interval1d, Params{30, 0.02, 0.03}},
		{model.Interval1wk, Params{30, 0.02, 0.03}},
		{model.Interval5m, DefaultParams},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParamsFor(tt.interval), tt.interval.String())
	}
}

func TestDetect_CopiesFrame(t *testing.T) {
	closes := wShape()
	frame := &model.IndicatorFrame{Symbol: "TEST", Interval: model.Interval1d}
	for i, c := range closes {
		frame.Rows = append(frame.Rows, model.IndicatorRow{
			OHLCV: model.OHLCV{Close: c},
			RSI:   float64(i),
		})
	}

	out := Detect(frame, model.Interval1d)
	require.Equal(t, frame.Len(), out.Len())
	assert.True(t, out.Rows[59].DoubleBottom)
	assert.False(t, frame.Rows[59].DoubleBottom, "input frame must not be mutated")
	assert.Equal(t, 42.0, out.Rows[42].RSI)
}

func TestDetectCloses_FlatSeriesHasNoFlags(t *testing.T) {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 250
	}
	db, dt := DetectCloses(closes, DefaultParams)
	for i := range closes {
		assert.False(t, db[i] || dt[i], "flat series flagged at bar %d", i)
	}
}

func TestDetect_NilAndEmptyFrame(t *testing.T) {
	assert.Nil(t, Detect(nil, model.Interval1d))

	empty := &model.IndicatorFrame{Symbol: "TEST", Interval: model.Interval1h}
	out := Detect(empty, model.Interval1h)
	require.NotNil(t, out)
	assert.Equal(t, "TEST", out.Symbol)
	assert.Zero(t, out.Len())
}
