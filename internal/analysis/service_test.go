package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalSentinel/internal/alertstate"
	"SignalSentinel/internal/backtest"
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
)

type memRecorder struct {
	mu            sync.Mutex
	analyses      []*recorder.AnalysisEvent
	backtests     []*recorder.BacktestEvent
	notifications []*recorder.NotificationEvent
}

func (r *memRecorder) RecordAnalysis(e *recorder.AnalysisEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, e)
	return nil
}

func (r *memRecorder) RecordBacktest(e *recorder.BacktestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backtests = append(r.backtests, e)
	return nil
}

func (r *memRecorder) RecordScreen(*recorder.ScreenEvent) error { return nil }

func (r *memRecorder) RecordNotification(e *recorder.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, e)
	return nil
}

func (r *memRecorder) Close() error { return nil }

type countingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *countingNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

type fixedClassifier struct{}

func (fixedClassifier) Predict(*model.IndicatorFrame) (float64, model.Direction) {
	return 0.61, model.DirectionUp
}

func newTestService(t *testing.T, f collector.Fetcher, n *countingNotifier) (*Service, *memRecorder, *metrics.Metrics) {
	t.Helper()
	rec := &memRecorder{}
	m := metrics.NewMetrics(prometheus.NewRegistry())
	c := collector.NewCollector(f, calculator.DefaultParams(), time.UTC, 0)
	var alerter *strategy.Alerter
	if n != nil {
		alerter = strategy.NewAlerter(n, strategy.DefaultCooldown)
	}
	svc := NewService(c, strategy.DefaultThresholds(), backtest.DefaultConfig(), alerter, fixedClassifier{}, rec, m)
	return svc, rec, m
}

func buySignal(symbol string) *model.TradeSignal {
	return &model.TradeSignal{
		Symbol: symbol,
		Actions: []model.Signal{
			{Source: model.SourceMACD, Side: model.SideBuy, Directive: true, Text: "MACD crossed above signal"},
		},
		Last: model.IndicatorRow{OHLCV: model.OHLCV{Close: 100}},
	}
}

func TestAnalyze_RecordsRunAndCountsOutcome(t *testing.T) {
	svc, rec, m := newTestService(t, &collector.MockFetcher{Price: 5000}, nil)

	rep, err := svc.Analyze(context.Background(), Request{
		Symbol: "BBCA.JK", Period: collector.Period1y, Interval: model.Interval1d, Trigger: model.TriggerAPI,
	})
	require.NoError(t, err)
	require.NotNil(t, rep.Signal)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "BBCA.JK", rep.Signal.Symbol)
	assert.Equal(t, model.DirectionUp, rep.Summary.Prediction.Label)
	assert.InDelta(t, 0.61, rep.Summary.Prediction.Accuracy, 1e-12)
	assert.False(t, rep.Alerted)

	require.Len(t, rec.analyses, 1)
	assert.Equal(t, rep.RunID, rec.analyses[0].RunID)
	assert.Equal(t, "1y", rec.analyses[0].Period)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("API", "ok")))
}

func TestAnalyze_InsufficientData(t *testing.T) {
	svc, rec, m := newTestService(t, &collector.MockFetcher{Count: 30}, nil)

	_, err := svc.Analyze(context.Background(), Request{
		Symbol: "BBCA.JK", Period: collector.Period1mo, Interval: model.Interval1d, Trigger: model.TriggerCommand,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, calculator.ErrInsufficientData)
	assert.Empty(t, rec.analyses)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("COMMAND", "insufficient_data")))
}

func TestAnalyze_FetchErrorCountsAsError(t *testing.T) {
	svc, _, m := newTestService(t, &collector.MockFetcher{Err: errors.New("boom")}, nil)

	_, err := svc.Analyze(context.Background(), Request{
		Symbol: "BBCA.JK", Period: collector.Period6mo, Interval: model.Interval1d, Trigger: model.TriggerScan,
	})
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalysesTotal.WithLabelValues("SCAN", "error")))
}

func TestBacktest_AllAndSelected(t *testing.T) {
	svc, rec, m := newTestService(t, &collector.MockFetcher{}, nil)
	req := Request{Symbol: "TLKM.JK", Period: collector.Period1y, Interval: model.Interval1d, Trigger: model.TriggerAPI}

	all, err := svc.Backtest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, all, len(model.Strategies))
	for i, r := range all {
		assert.Equal(t, model.Strategies[i], r.Strategy)
	}
	require.Len(t, rec.backtests, len(model.Strategies))
	assert.Equal(t, rec.backtests[0].RunID, rec.backtests[3].RunID)

	req.Strategies = []model.Strategy{model.StrategyRSIOver}
	one, err := svc.Backtest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, model.StrategyRSIOver, one[0].Strategy)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BacktestsTotal.WithLabelValues("RSI_OVER")))
}

func TestBacktest_UsesConfiguredCommission(t *testing.T) {
	svc, _, _ := newTestService(t, &collector.MockFetcher{}, nil)
	svc.BacktestConfig.Commission = 0.01
	req := Request{Symbol: "BBRI.JK", Period: collector.Period1y, Interval: model.Interval1d,
		Strategies: []model.Strategy{model.StrategyMACross}, Trigger: model.TriggerAPI}

	frame, err := svc.Collector.Collect(context.Background(), req.Symbol, req.Period, req.Interval)
	require.NoError(t, err)
	want := backtest.Run(frame, model.StrategyMACross, svc.BacktestConfig)

	got, err := svc.Backtest(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, want.Metrics.StrategyReturn, got[0].Metrics.StrategyReturn, 1e-12)
	assert.Equal(t, len(want.Trades), len(got[0].Trades))
}

func TestAlert_OncePerCooldown(t *testing.T) {
	n := &countingNotifier{}
	svc, rec, m := newTestService(t, &collector.MockFetcher{}, n)

	assert.True(t, svc.alert(context.Background(), "run-1", buySignal("BBRI.JK")))
	assert.False(t, svc.alert(context.Background(), "run-2", buySignal("BBRI.JK")))
	assert.True(t, svc.alert(context.Background(), "run-3", buySignal("BMRI.JK")))

	assert.Len(t, n.sent, 2)
	require.Len(t, rec.notifications, 2)
	assert.Equal(t, "run-1", rec.notifications[0].RunID)
	assert.Equal(t, model.SideBuy, rec.notifications[0].Side)
	assert.True(t, rec.notifications[0].Delivered)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AlertsTotal.WithLabelValues("true")))
}

func TestAlert_ConcurrentRunsSendOnce(t *testing.T) {
	n := &countingNotifier{}
	svc, _, _ := newTestService(t, &collector.MockFetcher{}, n)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.alert(context.Background(), "run", buySignal("ASII.JK"))
		}()
	}
	wg.Wait()
	assert.Len(t, n.sent, 1)
}

func TestAlert_FailureIsRecorded(t *testing.T) {
	n := &countingNotifier{err: errors.New("telegram down")}
	svc, rec, m := newTestService(t, &collector.MockFetcher{}, n)

	assert.True(t, svc.alert(context.Background(), "run", buySignal("UNVR.JK")))
	require.Len(t, rec.notifications, 1)
	assert.False(t, rec.notifications[0].Delivered)
	assert.Equal(t, "telegram down", rec.notifications[0].Error)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsTotal.WithLabelValues("false")))
	assert.False(t, svc.alert(context.Background(), "run", buySignal("UNVR.JK")))
}

func TestAlert_NoAlerter(t *testing.T) {
	svc, _, _ := newTestService(t, &collector.MockFetcher{}, nil)
	assert.False(t, svc.alert(context.Background(), "run", buySignal("BBCA.JK")))
}

func TestIntervalFor(t *testing.T) {
	assert.Equal(t, model.Interval15m, IntervalFor(collector.Period1mo, model.Interval1d))
	assert.Equal(t, model.Interval1wk, IntervalFor(collector.PeriodMax, model.Interval1d))
	assert.Equal(t, model.Interval1h, IntervalFor(collector.Period6mo, model.Interval1h))
}

func TestAlert_RespectsStoredCooldown(t *testing.T) {
	n := &countingNotifier{}
	svc, _, _ := newTestService(t, &collector.MockFetcher{}, n)

	path := t.TempDir() + "/alerts.json"
	store, err := alertstate.NewStore(path)
	require.NoError(t, err)
	store.Set("BBCA.JK", time.Now().Add(-time.Minute))
	svc.Alerts = store

	assert.False(t, svc.alert(context.Background(), "run", buySignal("BBCA.JK")))
	assert.True(t, svc.alert(context.Background(), "run", buySignal("TLKM.JK")))
	assert.Len(t, n.sent, 1)

	reopened, err := alertstate.NewStore(path)
	require.NoError(t, err)
	assert.False(t, reopened.Last("TLKM.JK").IsZero())
}
