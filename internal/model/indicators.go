package model

import "math"

// Undefined is the marker stored in indicator fields that lack enough history.
func Undefined() float64 { return math.NaN() }

// Defined reports whether an indicator value carries a real number.
func Defined(v float64) bool { return !math.IsNaN(v) }

// IndicatorRow is one bar extended with every derived field.
type IndicatorRow struct {
	OHLCV

	MAShort  float64
	MAMedium float64
	MALong   float64

	RSI float64

	MACD       float64
	MACDSignal float64
	MACDHist   float64

	BBUpper  float64
	BBMiddle float64
	BBLower  float64

	StochK float64
	StochD float64

	DoubleBottom bool
	DoubleTop    bool
}

// Complete reports whether no indicator field is undefined.
func (r IndicatorRow) Complete() bool {
	for _, v := range [...]float64{
		r.MAShort, r.MAMedium, r.MALong, r.RSI,
		r.MACD, r.MACDSignal, r.MACDHist,
		r.BBUpper, r.BBMiddle, r.BBLower,
		r.StochK, r.StochD,
	} {
		if !Defined(v) {
			return false
		}
	}
	return true
}

// IndicatorFrame is a price series enriched with indicators and pattern flags.
type IndicatorFrame struct {
	Symbol   string
	Interval Interval
	Rows     []IndicatorRow
}

func (f *IndicatorFrame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Last returns the most recent row. ok is false for an empty frame.
func (f *IndicatorFrame) Last() (row IndicatorRow, ok bool) {
	if f.Len() == 0 {
		return IndicatorRow{}, false
	}
	return f.Rows[len(f.Rows)-1], true
}

// Prev returns the row before the most recent one.
func (f *IndicatorFrame) Prev() (row IndicatorRow, ok bool) {
	if f.Len() < 2 {
		return IndicatorRow{}, false
	}
	return f.Rows[len(f.Rows)-2], true
}

// Closes returns the close column.
func (f *IndicatorFrame) Closes() []float64 {
	closes := make([]float64, f.Len())
	if f == nil {
		return closes
	}
	for i, r := range f.Rows {
		closes[i] = r.Close
	}
	return closes
}

// Clone returns a deep copy of the frame. A nil frame clones to nil.
func (f *IndicatorFrame) Clone() *IndicatorFrame {
	if f == nil {
		return nil
	}
	out := &IndicatorFrame{Symbol: f.Symbol, Interval: f.Interval}
	out.Rows = make([]IndicatorRow, len(f.Rows))
	copy(out.Rows, f.Rows)
	return out
}

// DropIncomplete returns a new frame holding only the complete rows.
func (f *IndicatorFrame) DropIncomplete() *IndicatorFrame {
	if f == nil {
		return nil
	}
	out := &IndicatorFrame{Symbol: f.Symbol, Interval: f.Interval}
	for _, r := range f.Rows {
		if r.Complete() {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}
