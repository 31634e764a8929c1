package strategy

import (
	"fmt"

	"SignalSentinel/internal/model"
)

// Thresholds are the oscillator levels used by the signal rules.
type Thresholds struct {
	RSIOversold     float64 `yaml:"rsi_oversold"`
	RSIOverbought   float64 `yaml:"rsi_overbought"`
	StochOversold   float64 `yaml:"stoch_oversold"`
	StochOverbought float64 `yaml:"stoch_overbought"`
}

// DefaultThresholds returns RSI 30/70 and Stochastic 20/80.
func DefaultThresholds() Thresholds {
	return Thresholds{RSIOversold: 30, RSIOverbought: 70, StochOversold: 20, StochOverbought: 80}
}

// Validate checks that every oversold level sits below its overbought level inside [0,100].
func (t Thresholds) Validate() error {
	pairs := []struct {
		name      string
		low, high float64
	}{
		{"rsi", t.RSIOversold, t.RSIOverbought},
		{"stoch", t.StochOversold, t.StochOverbought},
	}
	for _, p := range pairs {
		if p.low < 0 || p.high > 100 || p.low >= p.high {
			return fmt.Errorf("%s thresholds must satisfy 0 <= oversold < overbought <= 100, got %g/%g", p.name, p.low, p.high)
		}
	}
	return nil
}

// rule classifies one aspect of the last bar. It returns the action and trend
// statements it produces; either may be empty.
type rule func(last model.IndicatorRow, th Thresholds) (actions, trends []model.Signal)

// rules is evaluated in order; every rule runs independently.
var rules = []rule{macdRule, rsiRule, stochasticRule, movingAverageRule, patternRule}

// macdRule: MACD above its signal line is a buy, stronger with a positive
// histogram; below with a negative histogram is a strong sell.
func macdRule(last model.IndicatorRow, _ Thresholds) (actions, trends []model.Signal) {
	switch {
	case last.MACD > last.MACDSignal && last.MACDHist > 0:
		actions = append(actions, model.Signal{
			Source: model.SourceMACD, Side: model.SideBuy, Directive: true,
			Text: "🟢 MACD above signal with positive histogram → strong BUY (positive momentum)",
		})
	case last.MACD > last.MACDSignal:
		actions = append(actions, model.Signal{
			Source: model.SourceMACD, Side: model.SideBuy, Directive: true,
			Text: "🟡 MACD crossed above signal → BUY (early momentum)",
		})
	case last.MACD < last.MACDSignal && last.MACDHist < 0:
		actions = append(actions, model.Signal{
			Source: model.SourceMACD, Side: model.SideSell, Directive: true,
			Text: "🔴 MACD below signal with negative histogram → strong SELL (negative momentum)",
		})
	default:
		trends = append(trends, model.Signal{
			Source: model.SourceMACD, Side: model.SideNeutral,
			Text: "🔵 MACD → sideways, no clear signal",
		})
	}
	return actions, trends
}

func rsiRule(last model.IndicatorRow, th Thresholds) (actions, trends []model.Signal) {
	switch {
	case last.RSI < th.RSIOversold:
		actions = append(actions, model.Signal{
			Source: model.SourceRSI, Side: model.SideBuy,
			Text: fmt.Sprintf("🟢 RSI (%.2f) < %g → oversold, potential rebound", last.RSI, th.RSIOversold),
		})
	case last.RSI > th.RSIOverbought:
		actions = append(actions, model.Signal{
			Source: model.SourceRSI, Side: model.SideSell,
			Text: fmt.Sprintf("🔴 RSI (%.2f) > %g → overbought, potential correction", last.RSI, th.RSIOverbought),
		})
	}
	return actions, nil
}

// stochasticRule confirms a buy when %K is above %D on the last bar with both
// in the oversold zone, and a sell for the mirrored case in the overbought
// zone. The previous bar is not consulted.
func stochasticRule(last model.IndicatorRow, th Thresholds) (actions, trends []model.Signal) {
	k, d := last.StochK, last.StochD
	switch {
	case k < th.StochOversold && d < th.StochOversold && k > d:
		actions = append(actions, model.Signal{
			Source: model.SourceStochastic, Side: model.SideBuy, Directive: true,
			Text: "🟢 Stochastic cross up in oversold zone → BUY confirmation",
		})
	case k > th.StochOverbought && d > th.StochOverbought && k < d:
		actions = append(actions, model.Signal{
			Source: model.SourceStochastic, Side: model.SideSell, Directive: true,
			Text: "🔴 Stochastic cross down in overbought zone → SELL confirmation",
		})
	}
	return actions, nil
}

func movingAverageRule(last model.IndicatorRow, _ Thresholds) (actions, trends []model.Signal) {
	switch {
	case last.MAShort > last.MAMedium && last.MAMedium > last.MALong:
		trends = append(trends, model.Signal{
			Source: model.SourceMA, Side: model.SideBuy,
			Text: "✨ MA ordering (golden cross) → strong uptrend",
		})
	case last.MAShort < last.MAMedium && last.MAMedium < last.MALong:
		trends = append(trends, model.Signal{
			Source: model.SourceMA, Side: model.SideSell,
			Text: "💀 MA ordering (death cross) → strong downtrend",
		})
	default:
		trends = append(trends, model.Signal{
			Source: model.SourceMA, Side: model.SideNeutral,
			Text: "🌊 MA ordering mixed → sideways trend",
		})
	}
	return nil, trends
}

func patternRule(last model.IndicatorRow, _ Thresholds) (actions, trends []model.Signal) {
	if last.DoubleBottom {
		actions = append(actions, model.Signal{
			Source: model.SourcePattern, Side: model.SideBuy,
			Text: "🟢 Double bottom detected → potential bullish reversal",
		})
	}
	if last.DoubleTop {
		actions = append(actions, model.Signal{
			Source: model.SourcePattern, Side: model.SideSell,
			Text: "🔴 Double top detected → potential price decline",
		})
	}
	return actions, nil
}
