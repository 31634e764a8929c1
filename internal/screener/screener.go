// Package screener scans a universe of instruments for one criterion.
package screener

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

// DefaultConcurrency bounds the number of instruments fetched at once.
const DefaultConcurrency = 4

// Screener runs one collect pipeline per instrument and keeps the matches.
type Screener struct {
	Collector   *collector.Collector
	Thresholds  strategy.Thresholds
	Concurrency int
	Recorder    recorder.Recorder
	Metrics     *metrics.Metrics
}

// NewScreener creates a Screener. rec and m may be nil.
func NewScreener(c *collector.Collector, th strategy.Thresholds, concurrency int, rec recorder.Recorder, m *metrics.Metrics) *Screener {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Screener{Collector: c, Thresholds: th, Concurrency: concurrency, Recorder: rec, Metrics: m}
}

type outcome struct {
	match *model.ScreenMatch
	err   error
}

// Screen evaluates criterion on the latest rows of every symbol. The interval
// is weekly for the max period and daily otherwise. Instruments that fail to
// load are logged and skipped; matches are sorted by symbol.
func (s *Screener) Screen(ctx context.Context, symbols []string, criterion model.Criterion, period collector.Period) ([]model.ScreenMatch, error) {
	start := time.Now()
	interval := collector.ScreenIntervalFor(period)
	outcomes := make([]outcome, len(symbols))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for i, symbol := range symbols {
		g.Go(func() error {
			frame, err := s.Collector.Collect(gCtx, symbol, period, interval)
			if err != nil {
				outcomes[i].err = err
				return nil
			}
			if Matches(criterion, frame, s.Thresholds) {
				m := matchOf(symbol, frame)
				outcomes[i].match = &m
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("screen %s: %w", criterion, err)
	}

	var matches []model.ScreenMatch
	failed := 0
	for i, o := range outcomes {
		switch {
		case o.err != nil:
			failed++
			log.Printf("[WARN] screen %s: skipping %s: %v", criterion, symbols[i], o.err)
		case o.match != nil:
			matches = append(matches, *o.match)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Symbol < matches[j].Symbol })

	log.Printf("[INFO] screen %s over %d instruments: %d match(es), %d failed", criterion, len(symbols), len(matches), failed)
	if err := s.Recorder.RecordScreen(&recorder.ScreenEvent{
		RunID:     recorder.NewRunID(),
		Trigger:   model.TriggerScreen,
		Criterion: criterion,
		Period:    string(period),
		Scanned:   len(symbols),
		Failed:    failed,
		Matches:   matches,
	}); err != nil {
		log.Printf("[WARN] record screen %s: %v", criterion, err)
	}
	if s.Metrics != nil {
		s.Metrics.ScreenMatches.WithLabelValues(criterion.String()).Set(float64(len(matches)))
		s.Metrics.ScreenDuration.Observe(time.Since(start).Seconds())
	}
	return matches, nil
}

// Matches reports whether the last rows of frame satisfy criterion. Crossing
// criteria need two rows and a strict change of sign.
func Matches(criterion model.Criterion, frame *model.IndicatorFrame, th strategy.Thresholds) bool {
	last, ok := frame.Last()
	if !ok {
		return false
	}
	switch criterion {
	case model.CriterionRSIOversold:
		return last.RSI < th.RSIOversold
	case model.CriterionRSIOverbought:
		return last.RSI > th.RSIOverbought
	case model.CriterionNewDoubleBottom:
		return last.DoubleBottom
	case model.CriterionNewDoubleTop:
		return last.DoubleTop
	}

	prev, ok := frame.Prev()
	if !ok {
		return false
	}
	switch criterion {
	case model.CriterionGoldenCross:
		return crossedAbove(prev.MAMedium, prev.MALong, last.MAMedium, last.MALong)
	case model.CriterionDeathCross:
		return crossedAbove(prev.MALong, prev.MAMedium, last.MALong, last.MAMedium)
	case model.CriterionMACDBuy:
		return crossedAbove(prev.MACD, prev.MACDSignal, last.MACD, last.MACDSignal)
	case model.CriterionMACDSell:
		return crossedAbove(prev.MACDSignal, prev.MACD, last.MACDSignal, last.MACD)
	default:
		return false
	}
}

func crossedAbove(prevA, prevB, lastA, lastB float64) bool {
	return lastA > lastB && prevA < prevB
}

func matchOf(symbol string, frame *model.IndicatorFrame) model.ScreenMatch {
	last, _ := frame.Last()
	return model.ScreenMatch{
		Symbol:   symbol,
		Time:     last.Time,
		Close:    last.Close,
		Volume:   last.Volume,
		RSI:      last.RSI,
		MACDHist: last.MACDHist,
	}
}
