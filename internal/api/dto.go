package api

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"SignalSentinel/internal/analysis"
	"SignalSentinel/internal/model"
)

// Number is a float that survives JSON encoding when it is NaN or infinite.
// Those values are written as the strings "NaN", "+Inf" and "-Inf".
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*n = Number(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

type signalDTO struct {
	Source    string `json:"source"`
	Side      string `json:"side"`
	Directive bool   `json:"directive"`
	Text      string `json:"text"`
}

type predictionDTO struct {
	Label    string `json:"label"`
	Accuracy Number `json:"accuracy"`
}

type summaryDTO struct {
	Close       Number        `json:"close"`
	ChangePct   Number        `json:"change_pct"`
	RSI         Number        `json:"rsi"`
	RSIState    string        `json:"rsi_state"`
	MACDBullish bool          `json:"macd_bullish"`
	MACDCross   string        `json:"macd_cross"`
	Bullish     bool          `json:"bullish"`
	RangeHigh   Number        `json:"range_high"`
	RangeLow    Number        `json:"range_low"`
	RangePos    Number        `json:"range_position"`
	Prediction  predictionDTO `json:"prediction"`
}

type analysisResponse struct {
	RunID    string      `json:"run_id"`
	Symbol   string      `json:"symbol"`
	Period   string      `json:"period"`
	Interval string      `json:"interval"`
	Time     time.Time   `json:"time"`
	Rows     int         `json:"rows"`
	Actions  []signalDTO `json:"actions"`
	Trends   []signalDTO `json:"trends"`
	Summary  summaryDTO  `json:"summary"`
}

type tradeDTO struct {
	EntryTime  time.Time `json:"entry_time"`
	ExitTime   time.Time `json:"exit_time"`
	EntryPrice Number    `json:"entry_price"`
	ExitPrice  Number    `json:"exit_price"`
	Profit     Number    `json:"profit"`
}

type backtestDTO struct {
	Strategy         string     `json:"strategy"`
	StrategyReturn   Number     `json:"strategy_return"`
	BuyHoldReturn    Number     `json:"buy_hold_return"`
	WinRate          Number     `json:"win_rate"`
	ProfitFactor     Number     `json:"profit_factor"`
	MaxDrawdown      Number     `json:"max_drawdown"`
	Trades           int        `json:"trades"`
	CommissionEvents int        `json:"commission_events"`
	TradeList        []tradeDTO `json:"trade_list"`
}

type backtestResponse struct {
	Symbol  string        `json:"symbol"`
	Period  string        `json:"period"`
	Results []backtestDTO `json:"results"`
}

type matchDTO struct {
	Symbol   string    `json:"symbol"`
	Time     time.Time `json:"time"`
	Close    Number    `json:"close"`
	Volume   Number    `json:"volume"`
	RSI      Number    `json:"rsi"`
	MACDHist Number    `json:"macd_hist"`
}

type screenResponse struct {
	Criterion string     `json:"criterion"`
	Period    string     `json:"period"`
	Scanned   int        `json:"scanned"`
	Matches   []matchDTO `json:"matches"`
}

func signalsDTO(signals []model.Signal) []signalDTO {
	out := make([]signalDTO, 0, len(signals))
	for _, s := range signals {
		out = append(out, signalDTO{Source: string(s.Source), Side: string(s.Side), Directive: s.Directive, Text: s.Text})
	}
	return out
}

func newAnalysisResponse(req analysis.Request, rep *analysis.Report) analysisResponse {
	s := rep.Summary
	return analysisResponse{
		RunID:    rep.RunID,
		Symbol:   req.Symbol,
		Period:   string(req.Period),
		Interval: req.Interval.String(),
		Time:     rep.Signal.Last.Time,
		Rows:     rep.Frame.Len(),
		Actions:  signalsDTO(rep.Signal.Actions),
		Trends:   signalsDTO(rep.Signal.Trends),
		Summary: summaryDTO{
			Close:       Number(s.Close),
			ChangePct:   Number(s.ChangePct),
			RSI:         Number(s.RSI),
			RSIState:    string(s.RSIState),
			MACDBullish: s.MACDBullish,
			MACDCross:   string(s.MACDCross),
			Bullish:     s.Bullish,
			RangeHigh:   Number(s.RangeHigh),
			RangeLow:    Number(s.RangeLow),
			RangePos:    Number(s.RangePos),
			Prediction:  predictionDTO{Label: string(s.Prediction.Label), Accuracy: Number(s.Prediction.Accuracy)},
		},
	}
}

func newBacktestDTO(r *model.BacktestResult) backtestDTO {
	m := r.Metrics
	trades := make([]tradeDTO, 0, len(r.Trades))
	for _, t := range r.Trades {
		trades = append(trades, tradeDTO{
			EntryTime:  t.EntryTime,
			ExitTime:   t.ExitTime,
			EntryPrice: Number(t.EntryPrice),
			ExitPrice:  Number(t.ExitPrice),
			Profit:     Number(t.Profit),
		})
	}
	return backtestDTO{
		Strategy:         r.Strategy.String(),
		StrategyReturn:   Number(m.StrategyReturn),
		BuyHoldReturn:    Number(m.BuyHoldReturn),
		WinRate:          Number(m.WinRate),
		ProfitFactor:     Number(m.ProfitFactor),
		MaxDrawdown:      Number(m.MaxDrawdown),
		Trades:           m.Trades,
		CommissionEvents: m.CommissionEvents,
		TradeList:        trades,
	}
}

func newMatchDTO(m model.ScreenMatch) matchDTO {
	return matchDTO{
		Symbol:   m.Symbol,
		Time:     m.Time,
		Close:    Number(m.Close),
		Volume:   Number(m.Volume),
		RSI:      Number(m.RSI),
		MACDHist: Number(m.MACDHist),
	}
}
