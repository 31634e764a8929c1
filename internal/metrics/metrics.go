// Package metrics holds the Prometheus instruments of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for SignalSentinel.
type Metrics struct {
	FetchDuration   *prometheus.HistogramVec // labels: provider
	FetchErrors     *prometheus.CounterVec   // labels: provider
	AnalysesTotal   *prometheus.CounterVec   // labels: trigger, outcome
	SignalsTotal    *prometheus.CounterVec   // labels: side
	AlertsTotal     *prometheus.CounterVec   // labels: delivered
	BacktestsTotal  *prometheus.CounterVec   // labels: strategy
	ScreenMatches   *prometheus.GaugeVec     // labels: criterion
	ScreenDuration  prometheus.Histogram
	LastScanSuccess prometheus.Gauge
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sentinel_fetch_duration_seconds",
			Help:    "Price history fetch latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_fetch_errors_total",
			Help: "Price history fetches that failed",
		}, []string{"provider"}),
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_analyses_total",
			Help: "Analysis runs by trigger and outcome (ok, insufficient_data, error)",
		}, []string{"trigger", "outcome"}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_signals_total",
			Help: "Action signals generated, by side",
		}, []string{"side"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_alerts_total",
			Help: "Alert delivery attempts",
		}, []string{"delivered"}),
		BacktestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sentinel_backtests_total",
			Help: "Backtests run, by strategy",
		}, []string{"strategy"}),
		ScreenMatches: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sentinel_screen_matches",
			Help: "Instruments matched by the last screener pass",
		}, []string{"criterion"}),
		ScreenDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sentinel_screen_duration_seconds",
			Help:    "Duration of a full screener pass",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		}),
		LastScanSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sentinel_last_scan_success_timestamp_seconds",
			Help: "Unix time of the last watchlist scan that completed",
		}),
	}

	reg.MustRegister(
		m.FetchDuration,
		m.FetchErrors,
		m.AnalysesTotal,
		m.SignalsTotal,
		m.AlertsTotal,
		m.BacktestsTotal,
		m.ScreenMatches,
		m.ScreenDuration,
		m.LastScanSuccess,
	)
	return m
}
