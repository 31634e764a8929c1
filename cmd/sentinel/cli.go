package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"SignalSentinel/internal/analysis"
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
)

var tagStripper = strings.NewReplacer("<b>", "", "</b>", "", "<i>", "", "</i>", "")

// plain turns a Telegram HTML message into terminal text.
func plain(s string) string {
	return html.UnescapeString(tagStripper.Replace(s))
}

// setup loads the config and wires the app for a one-shot command.
func setup(cmd *cobra.Command) (*app, context.Context, context.CancelFunc, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := newApp(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	return a, ctx, cancel, nil
}

// request builds the analysis request from the positional symbol and the
// period and interval flags, falling back to the analysis section.
func (a *app) request(args []string) (analysis.Request, error) {
	req := analysis.Request{
		Symbol:   a.cfg.Analysis.Symbol,
		Period:   a.period,
		Interval: a.interval,
		Trigger:  model.TriggerManual,
	}
	if len(args) > 0 {
		req.Symbol = strings.ToUpper(args[0])
	}
	if periodFlag != "" {
		p, err := collector.ParsePeriod(periodFlag)
		if err != nil {
			return req, err
		}
		req.Period = p
		req.Interval = analysis.IntervalFor(p, a.interval)
	}
	if intervalFlg != "" {
		iv, err := model.ParseInterval(intervalFlg)
		if err != nil {
			return req, err
		}
		req.Interval = iv
	}
	return req, nil
}

func cliError(err error) error {
	if errors.Is(err, calculator.ErrInsufficientData) {
		return fmt.Errorf("insufficient data, try a longer period: %w", err)
	}
	return err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	req, err := a.request(args)
	if err != nil {
		return err
	}
	rep, err := a.analysis.Analyze(ctx, req)
	if err != nil {
		return cliError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatSignal(rep.Signal)))
	fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatSummary(req.Symbol, rep.Summary)))
	return nil
}

func runBacktest(cmd *cobra.Command, args []string) error {
	a, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	req, err := a.request(args)
	if err != nil {
		return err
	}
	name := strategyFlg
	if name == "" {
		name = a.cfg.Backtest.Strategy
	}
	if !strings.EqualFold(name, "all") {
		req.Strategies = []model.Strategy{model.ParseStrategy(name)}
	}
	results, err := a.analysis.Backtest(ctx, req)
	if err != nil {
		return cliError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatBacktests(results)))
	return nil
}

func runScreen(cmd *cobra.Command, _ []string) error {
	a, ctx, cancel, err := setup(cmd)
	if err != nil {
		return err
	}
	defer cancel()
	defer a.Close()

	c := a.criterion
	if criterion != "" {
		if c, err = model.ParseCriterion(criterion); err != nil {
			return err
		}
	}
	period := a.watchPeriod
	if periodFlag != "" {
		if period, err = collector.ParsePeriod(periodFlag); err != nil {
			return err
		}
	}
	symbols := a.cfg.Watchlist.Symbols
	if symbolsFlag != "" {
		symbols = nil
		for _, s := range strings.Split(symbolsFlag, ",") {
			if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
				symbols = append(symbols, s)
			}
		}
	}
	matches, err := a.screener.Screen(ctx, symbols, c, period)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatScreen(c, matches)))
	return nil
}
