package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	periodFlag  string
	intervalFlg string
	strategyFlg string
	criterion   string
	symbolsFlag string

	rootCmd = &cobra.Command{
		Use:   "sentinel",
		Short: "Technical-analysis signals, backtests and screener for IDX equities",
		Long: `SignalSentinel computes indicators, trade signals and backtests for
an instrument, screens a watchlist and pushes alerts to Telegram.`,
		SilenceUsage: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler, the Telegram bot and the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Print the trade signal and summary of one instrument",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}

	backtestCmd = &cobra.Command{
		Use:   "backtest [symbol]",
		Short: "Simulate a strategy (or all of them) over the price history",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBacktest,
	}

	screenCmd = &cobra.Command{
		Use:   "screen",
		Short: "Scan the watchlist for a screener criterion",
		Args:  cobra.NoArgs,
		RunE:  runScreen,
	}
)

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfig, "path to the YAML config")

	for _, cmd := range []*cobra.Command{analyzeCmd, backtestCmd, screenCmd} {
		cmd.Flags().StringVarP(&periodFlag, "period", "p", "", "lookback period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)")
	}
	for _, cmd := range []*cobra.Command{analyzeCmd, backtestCmd} {
		cmd.Flags().StringVarP(&intervalFlg, "interval", "i", "", "bar interval (1m ... 1mo); defaults to the period preset")
	}
	backtestCmd.Flags().StringVarP(&strategyFlg, "strategy", "s", "", "MA_CROSS, MACD_TREND, RSI_TREND, RSI_OVER or ALL")
	screenCmd.Flags().StringVar(&criterion, "criterion", "", "screener criterion (RSI_OVERSOLD, GOLDEN_CROSS, MACD_BUY, NEW_DB, ...)")
	screenCmd.Flags().StringVar(&symbolsFlag, "symbols", "", "comma separated universe; defaults to the watchlist")

	rootCmd.AddCommand(serveCmd, analyzeCmd, backtestCmd, screenCmd)
}
