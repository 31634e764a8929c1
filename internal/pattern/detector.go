// Package pattern flags double-bottom ("W") and double-top ("M") reversal
// shapes on the close series of an indicator frame.
package pattern

import (
	"math"

	"SignalSentinel/internal/model"
)

// Params controls the shape matcher.
type Params struct {
	// Distance is the number of bars before the current one searched for the first extreme.
	Distance int
	// Threshold is the maximum relative gap between the two extremes.
	Threshold float64
	// ReversalFactor is the minimum relative move between the extremes and the neckline.
	ReversalFactor float64
}

// DefaultParams applies to daily, weekly and any interval without an override.
var DefaultParams = Params{Distance: 30, Threshold: 0.02, ReversalFactor: 0.03}

// intervalParams holds the overrides for intraday sampling. Finer bars need more
// of them to span a comparable wall-clock window and react to smaller moves.
var intervalParams = map[model.Interval]Params{
	model.Interval1m:  {Distance: 240, Threshold: 0.0025, ReversalFactor: 0.004},
	model.Interval15m: {Distance: 80, Threshold: 0.005, ReversalFactor: 0.007},
	model.Interval1h:  {Distance: 60, Threshold: 0.005, ReversalFactor: 0.007},
}

// ParamsFor returns the detection parameters for an interval.
func ParamsFor(interval model.Interval) Params {
	if p, ok := intervalParams[interval]; ok {
		return p
	}
	return DefaultParams
}

// Detect returns a copy of frame with the DoubleBottom and DoubleTop flags set
// using the parameters of the given interval. Indicator values are not touched.
// A nil frame yields nil.
func Detect(frame *model.IndicatorFrame, interval model.Interval) *model.IndicatorFrame {
	out := frame.Clone()
	if out == nil {
		return nil
	}
	db, dt := DetectCloses(out.Closes(), ParamsFor(interval))
	for i := range out.Rows {
		out.Rows[i].DoubleBottom = db[i]
		out.Rows[i].DoubleTop = dt[i]
	}
	return out
}

// DetectCloses scans closes and returns the double-bottom and double-top flags.
// Fewer than Distance+1 closes yields no flags.
func DetectCloses(closes []float64, p Params) (db, dt []bool) {
	n := len(closes)
	db = make([]bool, n)
	dt = make([]bool, n)
	if p.Distance <= 0 || n < p.Distance+1 {
		return db, dt
	}

	for i := p.Distance; i < n; i++ {
		current := closes[i]
		lo, hi := minMax(closes[i-p.Distance : i])
		recentLo, recentHi := minMax(closes[max(0, i-2) : i+1])

		bottomGap, isBottom := doubleBottom(lo, hi, current, recentLo, p)
		topGap, isTop := doubleTop(lo, hi, current, recentHi, p)

		switch {
		case isBottom && isTop:
			// Both shapes only coexist under loose parameters; keep the tighter match.
			if bottomGap < topGap {
				db[i] = true
			} else if topGap < bottomGap {
				dt[i] = true
			}
		case isBottom:
			db[i] = true
		case isTop:
			dt[i] = true
		}
	}
	return db, dt
}

// doubleBottom tests for a "W": the current close revisits the window low after
// a bounce to the neckline. gap is the relative distance between the two troughs.
func doubleBottom(bottom1, neckline, bottom2, recentLow float64, p Params) (gap float64, ok bool) {
	gap = math.Abs(bottom1-bottom2) / bottom1
	similar := gap < p.Threshold
	bounced := neckline > bottom1*(1+p.ReversalFactor) && neckline > bottom2*(1+p.ReversalFactor)
	localMin := bottom2 <= recentLow
	return gap, similar && bounced && localMin
}

// doubleTop tests for an "M": the current close revisits the window high after
// a dip to the trough.
func doubleTop(trough, top1, top2, recentHigh float64, p Params) (gap float64, ok bool) {
	gap = math.Abs(top1-top2) / top1
	similar := gap < p.Threshold
	dipped := trough < top1*(1-p.ReversalFactor) && trough < top2*(1-p.ReversalFactor)
	localMax := top2 >= recentHigh
	return gap, similar && dipped && localMax
}

func minMax(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
