package main

import (
	"fmt"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"SignalSentinel/internal/alertstate"
	"SignalSentinel/internal/analysis"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/screener"
	"SignalSentinel/internal/strategy"
)

// app holds every wired component shared by the subcommands.
type app struct {
	cfg       *config.Config
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	recorder  recorder.Recorder
	notifier  notifier.Notifier
	telegram  *notifier.TelegramNotifier
	collector *collector.Collector
	analysis  *analysis.Service
	screener  *screener.Screener

	period        collector.Period
	interval      model.Interval
	watchPeriod   collector.Period
	watchInterval model.Interval
	criterion     model.Criterion
	location      *time.Location
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewMetrics(a.registry)

	var err error
	if a.location, err = cfg.Location(); err != nil {
		return nil, err
	}
	if a.period, err = collector.ParsePeriod(cfg.Analysis.Period); err != nil {
		return nil, err
	}
	if a.interval, err = model.ParseInterval(cfg.Analysis.Interval); err != nil {
		return nil, err
	}
	if a.watchPeriod, err = collector.ParsePeriod(cfg.Watchlist.Period); err != nil {
		return nil, err
	}
	if a.watchInterval, err = model.ParseInterval(cfg.Watchlist.Interval); err != nil {
		return nil, err
	}
	if a.criterion, err = model.ParseCriterion(cfg.Schedule.ScreenCriterion); err != nil {
		return nil, err
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	fetcher = collector.Instrument(fetcher, func(provider string, elapsed time.Duration, err error) {
		a.metrics.FetchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
		if err != nil {
			a.metrics.FetchErrors.WithLabelValues(provider).Inc()
		}
	})
	a.collector = collector.NewCollector(fetcher, cfg.Indicators, a.location, cfg.Analysis.MinRows)

	if cfg.TelegramEnabled() {
		a.telegram = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		a.notifier = a.telegram
	} else {
		log.Println("[WARN] telegram not configured, alerts go to the log")
		a.notifier = notifier.NewLogNotifier()
	}

	a.recorder = recorder.NewNoopRecorder()
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		} else {
			a.recorder = sr
		}
	}

	alerter := strategy.NewAlerter(a.notifier, cfg.Cooldown())
	a.analysis = analysis.NewService(a.collector, cfg.Signals, cfg.BacktestConfig(), alerter,
		analysis.UnavailableClassifier{}, a.recorder, a.metrics)
	alerts, err := alertstate.NewStore(cfg.Database.AlertStatePath)
	if err != nil {
		log.Printf("[WARN] %v, alert cooldowns start empty", err)
		alerts, _ = alertstate.NewStore("")
	}
	a.analysis.Alerts = alerts
	a.screener = screener.NewScreener(a.collector, cfg.Signals, cfg.Watchlist.Concurrency, a.recorder, a.metrics)
	return a, nil
}

func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderYahoo:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f, nil
	case config.ProviderBinance:
		return collector.NewBinanceFetcher(ds.APIKey, ds.APISecret, cfg.Proxy, ds.RequestsPerSecond), nil
	case config.ProviderREST:
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy), nil
	case config.ProviderMock:
		return &collector.MockFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Printf("[WARN] close recorder: %v", err)
	}
}
