package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"SignalSentinel/internal/analysis"
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/screener"
)

// InsufficientDataReply is sent when a frame is too short to analyze.
const InsufficientDataReply = "⚠️ insufficient data, try a longer period"

// Watchlist is the universe and window of the scheduled jobs.
type Watchlist struct {
	Symbols   []string
	Period    collector.Period
	Interval  model.Interval
	Criterion model.Criterion
}

// Scheduler manages all cron tasks and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Analysis  *analysis.Service
	Screener  *screener.Screener
	Notifier  notifier.Notifier
	Metrics   *metrics.Metrics
	Watchlist Watchlist
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. Cron specs carry a seconds field and
// fire in loc.
func NewScheduler(ctx context.Context, svc *analysis.Service, scr *screener.Screener, n notifier.Notifier,
	m *metrics.Metrics, wl Watchlist, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Analysis:  svc,
		Screener:  scr,
		Notifier:  n,
		Metrics:   m,
		Watchlist: wl,
		Ctx:       ctx,
	}
}

// RegisterAll registers the watchlist scan and the screener pass. An empty cron
// expression leaves that job unscheduled.
func (s *Scheduler) RegisterAll(scanCron, screenCron string) error {
	if scanCron != "" {
		if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
			return fmt.Errorf("register scan task: %w", err)
		}
	}
	if screenCron != "" {
		if _, err := s.Cron.AddFunc(screenCron, s.screenTask); err != nil {
			return fmt.Errorf("register screen task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the watchlist scan immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// scanTask analyzes every watchlist symbol and lets the alerter decide what
// to send. One failing symbol never stops the scan.
func (s *Scheduler) scanTask() {
	log.Printf("[INFO] running watchlist scan over %d symbols", len(s.Watchlist.Symbols))
	failed := 0
	alerted := 0
	for _, symbol := range s.Watchlist.Symbols {
		if s.Ctx.Err() != nil {
			log.Printf("[WARN] scan aborted: %v", s.Ctx.Err())
			return
		}
		rep, err := s.Analysis.Analyze(s.Ctx, analysis.Request{
			Symbol:   symbol,
			Period:   s.Watchlist.Period,
			Interval: s.Watchlist.Interval,
			Trigger:  model.TriggerScan,
			Notify:   true,
		})
		if err != nil {
			failed++
			log.Printf("[ERROR] scan %s: %v", symbol, err)
			continue
		}
		if rep.Alerted {
			alerted++
		}
	}
	log.Printf("[INFO] scan finished: %d alert(s), %d failed", alerted, failed)
	if s.Metrics != nil {
		s.Metrics.LastScanSuccess.SetToCurrentTime()
	}
}

func (s *Scheduler) screenTask() {
	log.Printf("[INFO] running screener %s", s.Watchlist.Criterion)
	s.trySend(s.screen(s.Watchlist.Criterion))
}

func (s *Scheduler) screen(criterion model.Criterion) string {
	matches, err := s.Screener.Screen(s.Ctx, s.Watchlist.Symbols, criterion, s.Watchlist.Period)
	if err != nil {
		log.Printf("[ERROR] screen %s: %v", criterion, err)
		return errorReply(err)
	}
	return notifier.FormatScreen(criterion, matches)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText()
	}
	// Telegram appends the bot name in groups: /analyze@SentinelBot
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/analyze":
		if len(args) == 0 {
			return "usage: /analyze SYMBOL [PERIOD]"
		}
		return s.analyze(args)
	case "/backtest":
		if len(args) == 0 {
			return "usage: /backtest SYMBOL [STRATEGY]"
		}
		return s.backtest(args)
	case "/screen":
		criterion := s.Watchlist.Criterion
		if len(args) > 0 {
			c, err := model.ParseCriterion(args[0])
			if err != nil {
				return errorReply(err)
			}
			criterion = c
		}
		return s.screen(criterion)
	case "/watchlist":
		return fmt.Sprintf("👀 <b>Watchlist</b> (%d, %s/%s)\n%s", len(s.Watchlist.Symbols),
			s.Watchlist.Period, s.Watchlist.Interval, html.EscapeString(strings.Join(s.Watchlist.Symbols, ", ")))
	default:
		return helpText()
	}
}

func (s *Scheduler) analyze(args []string) string {
	req, err := s.request(args)
	if err != nil {
		return errorReply(err)
	}
	rep, err := s.Analysis.Analyze(s.Ctx, req)
	if err != nil {
		log.Printf("[WARN] /analyze %s: %v", req.Symbol, err)
		return errorReply(err)
	}
	return notifier.FormatSignal(rep.Signal) + "\n\n" + notifier.FormatSummary(req.Symbol, rep.Summary)
}

func (s *Scheduler) backtest(args []string) string {
	req, err := s.request(args[:1])
	if err != nil {
		return errorReply(err)
	}
	if len(args) > 1 {
		req.Strategies = []model.Strategy{model.ParseStrategy(args[1])}
	}
	results, err := s.Analysis.Backtest(s.Ctx, req)
	if err != nil {
		log.Printf("[WARN] /backtest %s: %v", req.Symbol, err)
		return errorReply(err)
	}
	return notifier.FormatBacktests(results)
}

// request builds an analysis request from SYMBOL [PERIOD]. A period with a
// preset interval uses it; otherwise the watchlist interval applies.
func (s *Scheduler) request(args []string) (analysis.Request, error) {
	req := analysis.Request{
		Symbol:   strings.ToUpper(args[0]),
		Period:   s.Watchlist.Period,
		Interval: s.Watchlist.Interval,
		Trigger:  model.TriggerCommand,
	}
	if len(args) > 1 {
		p, err := collector.ParsePeriod(args[1])
		if err != nil {
			return req, err
		}
		req.Period = p
		req.Interval = analysis.IntervalFor(p, s.Watchlist.Interval)
	}
	return req, nil
}

func errorReply(err error) string {
	if errors.Is(err, calculator.ErrInsufficientData) {
		return InsufficientDataReply
	}
	return "❌ " + html.EscapeString(err.Error())
}

func helpText() string {
	return "Available commands:\n" +
		"• /analyze SYMBOL [PERIOD]\n" +
		"• /backtest SYMBOL [STRATEGY]\n" +
		"• /screen [CRITERION]\n" +
		"• /watchlist"
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil || text == "" {
		return
	}
	if err := s.Notifier.Notify(s.Ctx, text); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
