package recorder

import (
	"github.com/google/uuid"

	"SignalSentinel/internal/model"
)

// AnalysisEvent records one signal generation run.
type AnalysisEvent struct {
	RunID   string
	Trigger model.TriggerType
	Period  string
	Signal  *model.TradeSignal
	Summary model.Summary
}

// BacktestEvent records one strategy simulation.
type BacktestEvent struct {
	RunID   string
	Trigger model.TriggerType
	Period  string
	Result  *model.BacktestResult
}

// ScreenEvent records one screener pass and its matches.
type ScreenEvent struct {
	RunID     string
	Trigger   model.TriggerType
	Criterion model.Criterion
	Period    string
	Scanned   int
	Failed    int
	Matches   []model.ScreenMatch
}

// NotificationEvent records an alert attempt.
type NotificationEvent struct {
	RunID     string
	Symbol    string
	Side      model.Side
	Message   string
	Delivered bool
	Error     string
}

// Recorder persists historical data for later review.
type Recorder interface {
	RecordAnalysis(evt *AnalysisEvent) error
	RecordBacktest(evt *BacktestEvent) error
	RecordScreen(evt *ScreenEvent) error
	RecordNotification(evt *NotificationEvent) error
	Close() error
}

// NewRunID returns an identifier shared by all events of one run.
func NewRunID() string { return uuid.NewString() }
