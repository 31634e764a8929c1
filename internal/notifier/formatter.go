package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"

	"SignalSentinel/internal/model"
)

// FormatAlert renders the alert sent when a signal carries a buy or sell.
// BUY wins when both sides are present. Only directive lines are listed.
func FormatAlert(sig *model.TradeSignal) string {
	side := model.SideSell
	if sig.HasBuy() {
		side = model.SideBuy
	}
	var lines []string
	for _, d := range sig.Directives() {
		lines = append(lines, html.EscapeString(d.Text))
	}
	return fmt.Sprintf("🔔 Strong %s signal detected for %s!\nPrice: %.2f\nSignals: %s",
		side, html.EscapeString(sig.Symbol), sig.Last.Close, strings.Join(lines, "; "))
}

// FormatSignal renders the full action and trend lists of a signal.
func FormatSignal(sig *model.TradeSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>%s</b> | %s | %s\n\n",
		html.EscapeString(sig.Symbol), sig.Interval, sig.Last.Time.Format("2006-01-02 15:04"))

	b.WriteString("<b>Actions:</b>\n")
	if len(sig.Actions) == 0 {
		b.WriteString("  no action signal\n")
	}
	for _, a := range sig.Actions {
		fmt.Fprintf(&b, "  %s\n", html.EscapeString(a.Text))
	}
	b.WriteString("\n<b>Trend:</b>\n")
	for _, t := range sig.Trends {
		fmt.Fprintf(&b, "  %s\n", html.EscapeString(t.Text))
	}
	return b.String()
}

// FormatSummary renders the dashboard figures for the latest bar.
func FormatSummary(symbol string, s model.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 <b>%s</b>\n", html.EscapeString(symbol))
	fmt.Fprintf(&b, "Close: %.2f (%+.2f%%)\n", s.Close, s.ChangePct)
	fmt.Fprintf(&b, "RSI: %.2f (%s)\n", s.RSI, s.RSIState)

	macd := "bearish"
	if s.MACDBullish {
		macd = "bullish"
	}
	fmt.Fprintf(&b, "MACD: %s, %s\n", macd, s.MACDCross)

	trend := "bearish"
	if s.Bullish {
		trend = "bullish"
	}
	fmt.Fprintf(&b, "MA trend: %s\n", trend)
	fmt.Fprintf(&b, "Range: %.2f - %.2f (position %.0f%%)\n", s.RangeLow, s.RangeHigh, s.RangePos*100)
	if s.Prediction.Label != model.DirectionUnavailable && s.Prediction.Label != "" {
		fmt.Fprintf(&b, "Next bar: %s (accuracy %.0f%%)\n", s.Prediction.Label, s.Prediction.Accuracy*100)
	}
	return b.String()
}

// FormatBacktests renders one line block per strategy result.
func FormatBacktests(results []*model.BacktestResult) string {
	if len(results) == 0 {
		return "No backtest results."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🧪 <b>Backtest %s</b>\n", html.EscapeString(results[0].Symbol))
	for _, r := range results {
		m := r.Metrics
		fmt.Fprintf(&b, "\n<b>%s</b>\n", r.Strategy)
		fmt.Fprintf(&b, "  Return: %+.2f%% (buy&hold %+.2f%%)\n", m.StrategyReturn*100, m.BuyHoldReturn*100)
		fmt.Fprintf(&b, "  Trades: %d | Win rate: %.1f%%\n", m.Trades, m.WinRate*100)
		fmt.Fprintf(&b, "  Profit factor: %s | Max DD: %.2f%%\n", FormatRatio(m.ProfitFactor), m.MaxDrawdown*100)
	}
	return b.String()
}

// FormatScreen renders the instruments matched by a screener criterion.
func FormatScreen(criterion model.Criterion, matches []model.ScreenMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔎 <b>Screener %s</b>: %d match(es)\n", criterion, len(matches))
	for _, m := range matches {
		fmt.Fprintf(&b, "  %s  close %.2f  RSI %s  vol %.0f\n",
			html.EscapeString(m.Symbol), m.Close, formatValue(m.RSI), m.Volume)
	}
	return b.String()
}

// FormatRatio renders a ratio that may be infinite or undefined.
func FormatRatio(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsNaN(v):
		return "n/a"
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func formatValue(v float64) string {
	if !model.Defined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
