// Package analysis runs the collect, signal, summarize and alert pipeline for
// one instrument and records what it did.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"SignalSentinel/internal/alertstate"
	"SignalSentinel/internal/backtest"
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

// Request selects the instrument and window of one run.
type Request struct {
	Symbol     string
	Period     collector.Period
	Interval   model.Interval
	Strategies []model.Strategy // backtest only; empty runs every strategy
	Trigger    model.TriggerType
	// Notify allows an alert for this run. Only scheduled scans set it.
	Notify bool
}

// Report is the outcome of Analyze.
type Report struct {
	RunID   string
	Frame   *model.IndicatorFrame
	Signal  *model.TradeSignal
	Summary model.Summary
	Alerted bool
}

// Service is safe for concurrent use.
type Service struct {
	Collector      *collector.Collector
	Thresholds     strategy.Thresholds
	BacktestConfig backtest.Config
	Alerter        *strategy.Alerter
	Classifier     Classifier
	Recorder       recorder.Recorder
	Metrics        *metrics.Metrics
	// Alerts holds the per-instrument cooldown state.
	Alerts *alertstate.Store
}

// NewService creates a Service. A nil recorder, classifier or alerter disables
// that step; metrics may be nil.
func NewService(c *collector.Collector, th strategy.Thresholds, bt backtest.Config,
	alerter *strategy.Alerter, classifier Classifier, rec recorder.Recorder, m *metrics.Metrics) *Service {
	if classifier == nil {
		classifier = UnavailableClassifier{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{
		Collector:      c,
		Thresholds:     th,
		BacktestConfig: bt,
		Alerter:        alerter,
		Classifier:     classifier,
		Recorder:       rec,
		Metrics:        m,
		Alerts:         memoryStore(),
	}
}

// IntervalFor returns the preset interval of period, or fallback when the
// period has no preset.
func IntervalFor(period collector.Period, fallback model.Interval) model.Interval {
	if iv, ok := collector.PresetFor(period); ok {
		return iv
	}
	return fallback
}

// Analyze collects the frame, generates the trade signal and summary, records
// the run and, when req.Notify is set, dispatches an alert.
func (s *Service) Analyze(ctx context.Context, req Request) (*Report, error) {
	frame, err := s.Collector.Collect(ctx, req.Symbol, req.Period, req.Interval)
	if err != nil {
		s.countAnalysis(req.Trigger, err)
		return nil, err
	}
	sig, err := strategy.Generate(frame, s.Thresholds)
	if err != nil {
		s.countAnalysis(req.Trigger, err)
		return nil, fmt.Errorf("generate %s: %w", req.Symbol, err)
	}

	summary := Summarize(frame, s.Thresholds)
	acc, label := s.Classifier.Predict(frame)
	summary.Prediction = model.Prediction{Label: label, Accuracy: acc}

	rep := &Report{RunID: recorder.NewRunID(), Frame: frame, Signal: sig, Summary: summary}
	if err := s.Recorder.RecordAnalysis(&recorder.AnalysisEvent{
		RunID:   rep.RunID,
		Trigger: req.Trigger,
		Period:  string(req.Period),
		Signal:  sig,
		Summary: summary,
	}); err != nil {
		log.Printf("[WARN] record analysis %s: %v", req.Symbol, err)
	}
	s.countAnalysis(req.Trigger, nil)
	if s.Metrics != nil {
		for _, a := range sig.Actions {
			s.Metrics.SignalsTotal.WithLabelValues(string(a.Side)).Inc()
		}
	}

	if req.Notify {
		rep.Alerted = s.alert(ctx, rep.RunID, sig)
	}
	return rep, nil
}

// Backtest collects the frame and simulates the requested strategies.
func (s *Service) Backtest(ctx context.Context, req Request) ([]*model.BacktestResult, error) {
	frame, err := s.Collector.Collect(ctx, req.Symbol, req.Period, req.Interval)
	if err != nil {
		return nil, err
	}
	var results []*model.BacktestResult
	if len(req.Strategies) == 0 {
		results = backtest.RunAll(frame, s.BacktestConfig)
	} else {
		for _, st := range req.Strategies {
			results = append(results, backtest.Run(frame, st, s.BacktestConfig))
		}
	}

	runID := recorder.NewRunID()
	for _, r := range results {
		if err := s.Recorder.RecordBacktest(&recorder.BacktestEvent{
			RunID:   runID,
			Trigger: req.Trigger,
			Period:  string(req.Period),
			Result:  r,
		}); err != nil {
			log.Printf("[WARN] record backtest %s %s: %v", req.Symbol, r.Strategy, err)
		}
		if s.Metrics != nil {
			s.Metrics.BacktestsTotal.WithLabelValues(r.Strategy.String()).Inc()
		}
	}
	return results, nil
}

// alert reserves the instrument's slot before sending so that concurrent runs
// for one symbol send at most one message per cooldown.
func (s *Service) alert(ctx context.Context, runID string, sig *model.TradeSignal) bool {
	if s.Alerter == nil {
		return false
	}
	last, ok := s.Alerts.Reserve(sig.Symbol, time.Now(), func(last time.Time) bool {
		return s.Alerter.Due(sig, last)
	})
	if !ok {
		return false
	}

	a := *s.Alerter
	observe := s.Alerter.Observe
	a.Observe = func(sig *model.TradeSignal, message string, err error) {
		s.recordNotification(runID, sig, message, err)
		if observe != nil {
			observe(sig, message, err)
		}
	}
	next, sent := a.Dispatch(ctx, sig, last)
	s.Alerts.Set(sig.Symbol, next)
	return sent
}

func memoryStore() *alertstate.Store {
	st, _ := alertstate.NewStore("")
	return st
}

func (s *Service) recordNotification(runID string, sig *model.TradeSignal, message string, err error) {
	side := model.SideSell
	if sig.HasBuy() {
		side = model.SideBuy
	}
	evt := &recorder.NotificationEvent{
		RunID:     runID,
		Symbol:    sig.Symbol,
		Side:      side,
		Message:   message,
		Delivered: err == nil,
	}
	if err != nil {
		evt.Error = err.Error()
	}
	if rerr := s.Recorder.RecordNotification(evt); rerr != nil {
		log.Printf("[WARN] record notification %s: %v", sig.Symbol, rerr)
	}
	if s.Metrics != nil {
		s.Metrics.AlertsTotal.WithLabelValues(strconv.FormatBool(err == nil)).Inc()
	}
}

func (s *Service) countAnalysis(trigger model.TriggerType, err error) {
	if s.Metrics == nil {
		return
	}
	outcome := "ok"
	switch {
	case errors.Is(err, calculator.ErrInsufficientData):
		outcome = "insufficient_data"
	case err != nil:
		outcome = "error"
	}
	s.Metrics.AnalysesTotal.WithLabelValues(string(trigger), outcome).Inc()
}
