package calculator

import (
	"errors"
	"fmt"

	"SignalSentinel/internal/model"
)

// ErrInsufficientData means the series is too short to produce any complete
// indicator row. Callers report it as "cannot analyze", never as zero values.
var ErrInsufficientData = errors.New("insufficient data")

// Params holds the window parameters of every indicator.
type Params struct {
	MAShort    int     `yaml:"ma_short"`
	MAMedium   int     `yaml:"ma_medium"`
	MALong     int     `yaml:"ma_long"`
	RSIWindow  int     `yaml:"rsi_window"`
	MACDFast   int     `yaml:"macd_fast"`
	MACDSlow   int     `yaml:"macd_slow"`
	MACDSignal int     `yaml:"macd_signal"`
	BBWindow   int     `yaml:"bb_window"`
	BBDev      float64 `yaml:"bb_dev"`
	StochK     int     `yaml:"stoch_k"`
	StochD     int     `yaml:"stoch_d"`
}

// DefaultParams returns the standard 20/50/100, 14, 12/26/9, 20/2, 14/3 setup.
func DefaultParams() Params {
	return Params{
		MAShort:    20,
		MAMedium:   50,
		MALong:     100,
		RSIWindow:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		BBWindow:   20,
		BBDev:      2,
		StochK:     14,
		StochD:     3,
	}
}

// Validate checks that every window is positive and the MACD periods are ordered.
func (p Params) Validate() error {
	windows := []struct {
		name string
		v    int
	}{
		{"ma_short", p.MAShort}, {"ma_medium", p.MAMedium}, {"ma_long", p.MALong},
		{"rsi_window", p.RSIWindow},
		{"macd_fast", p.MACDFast}, {"macd_slow", p.MACDSlow}, {"macd_signal", p.MACDSignal},
		{"bb_window", p.BBWindow}, {"stoch_k", p.StochK}, {"stoch_d", p.StochD},
	}
	for _, w := range windows {
		if w.v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", w.name, w.v)
		}
	}
	if p.MACDFast >= p.MACDSlow {
		return fmt.Errorf("macd_fast (%d) must be below macd_slow (%d)", p.MACDFast, p.MACDSlow)
	}
	if p.BBDev <= 0 {
		return fmt.Errorf("bb_dev must be positive, got %g", p.BBDev)
	}
	return nil
}

// Longest returns the number of bars needed before every indicator is defined.
func (p Params) Longest() int {
	longest := 0
	for _, n := range []int{
		p.MAShort, p.MAMedium, p.MALong,
		p.RSIWindow,
		p.MACDSlow + p.MACDSignal - 1,
		p.BBWindow,
		p.StochK + p.StochD - 1,
	} {
		if n > longest {
			longest = n
		}
	}
	return longest
}

// Compute derives every indicator from the bars. The returned frame has one row
// per bar; warm-up fields hold the undefined marker and pattern flags are unset.
// Input shorter than the longest window yields ErrInsufficientData.
func Compute(bars []model.OHLCV, p Params) (*model.IndicatorFrame, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("indicator params: %w", err)
	}
	need := p.Longest()
	if len(bars) == 0 || len(bars) < need {
		return nil, fmt.Errorf("%w: have %d bars, need %d", ErrInsufficientData, len(bars), need)
	}

	n := len(bars)
	closes := extractCloses(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
	}

	maShort := SMASeries(closes, p.MAShort)
	maMedium := SMASeries(closes, p.MAMedium)
	maLong := SMASeries(closes, p.MALong)
	rsi := RSISeries(closes, p.RSIWindow)
	macd, signal, hist := MACDSeries(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
	upper, middle, lower := BollingerSeries(closes, p.BBWindow, p.BBDev)
	k, d := StochasticSeries(highs, lows, closes, p.StochK, p.StochD)

	frame := &model.IndicatorFrame{Rows: make([]model.IndicatorRow, n)}
	for i, b := range bars {
		frame.Rows[i] = model.IndicatorRow{
			OHLCV:      b,
			MAShort:    maShort[i],
			MAMedium:   maMedium[i],
			MALong:     maLong[i],
			RSI:        rsi[i],
			MACD:       macd[i],
			MACDSignal: signal[i],
			MACDHist:   hist[i],
			BBUpper:    upper[i],
			BBMiddle:   middle[i],
			BBLower:    lower[i],
			StochK:     k[i],
			StochD:     d[i],
		}
	}
	return frame, nil
}
