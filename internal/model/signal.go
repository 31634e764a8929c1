package model

// TriggerType indicates what started an analysis.
type TriggerType string

const (
	TriggerScan    TriggerType = "SCAN"
	TriggerScreen  TriggerType = "SCREEN"
	TriggerCommand TriggerType = "COMMAND"
	TriggerAPI     TriggerType = "API"
	TriggerManual  TriggerType = "MANUAL"
)

// SignalSource names the indicator family a signal came from.
type SignalSource string

const (
	SourceMACD       SignalSource = "MACD"
	SourceRSI        SignalSource = "RSI"
	SourceStochastic SignalSource = "STOCH"
	SourceMA         SignalSource = "MA"
	SourcePattern    SignalSource = "PATTERN"
)

// Side is the market direction a signal leans to.
type Side string

const (
	SideBuy     Side = "BUY"
	SideSell    Side = "SELL"
	SideNeutral Side = "NEUTRAL"
)

// Signal is one classified, human-readable statement.
type Signal struct {
	Source SignalSource
	Side   Side
	// Directive marks an explicit BUY/SELL instruction; only these lines go into alerts.
	Directive bool
	Text      string
}

// TradeSignal is the output of the signal generator.
type TradeSignal struct {
	Symbol   string
	Interval Interval
	Actions  []Signal
	Trends   []Signal
	Last     IndicatorRow
}

func (s *TradeSignal) HasBuy() bool  { return s.hasSide(SideBuy) }
func (s *TradeSignal) HasSell() bool { return s.hasSide(SideSell) }

func (s *TradeSignal) hasSide(side Side) bool {
	for _, a := range s.Actions {
		if a.Side == side {
			return true
		}
	}
	return false
}

// Directives returns the action lines that are explicit BUY/SELL instructions.
func (s *TradeSignal) Directives() []Signal {
	var out []Signal
	for _, a := range s.Actions {
		if a.Directive {
			out = append(out, a)
		}
	}
	return out
}
