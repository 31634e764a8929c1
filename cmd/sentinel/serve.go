package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"SignalSentinel/internal/api"
	"SignalSentinel/internal/scheduler"
)

func runServe(_ *cobra.Command, _ []string) error {
	log.Println("[INFO] SignalSentinel starting...")
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	a, err := newApp(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init: %v", err)
	}
	defer a.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.analysis, a.screener, a.notifier, a.metrics, scheduler.Watchlist{
		Symbols:   cfg.Watchlist.Symbols,
		Period:    a.watchPeriod,
		Interval:  a.watchInterval,
		Criterion: a.criterion,
	}, a.location)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.ScreenCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if a.telegram != nil {
		go a.telegram.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	var srv *http.Server
	if cfg.API.Addr != "" {
		gin.SetMode(gin.ReleaseMode)
		srv = &http.Server{
			Addr: cfg.API.Addr,
			Handler: api.NewRouter(a.analysis, a.screener, a.registry, api.Defaults{
				Period:    a.period,
				Interval:  a.interval,
				Universe:  cfg.Watchlist.Symbols,
				Criterion: a.criterion,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Printf("[INFO] HTTP API listening on %s", cfg.API.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("[ERROR] HTTP API: %v", err)
			}
		}()
	}

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing watchlist scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] SignalSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] HTTP shutdown: %v", err)
		}
	}
	log.Println("[INFO] SignalSentinel stopped")
	return nil
}
