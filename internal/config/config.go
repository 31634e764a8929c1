package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"SignalSentinel/internal/backtest"
	"SignalSentinel/internal/calculator"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

// LQ45 is the default screener universe.
var LQ45 = []string{
	"ADRO.JK", "AKRA.JK", "AMRT.JK", "ANTM.JK", "ARTO.JK", "ASII.JK", "BBCA.JK",
	"BBNI.JK", "BBRI.JK", "BBTN.JK", "BMRI.JK", "BRIS.JK", "BRPT.JK", "BUKA.JK",
	"CPIN.JK", "ESSA.JK", "EXCL.JK", "GOTO.JK", "HRUM.JK", "ICBP.JK", "INCO.JK",
	"INDF.JK", "INDY.JK", "INKP.JK", "INTP.JK", "ITMG.JK", "KLBF.JK", "MAPI.JK",
	"MBMA.JK", "MDKA.JK", "MEDC.JK", "MTEL.JK", "PGAS.JK", "PGEO.JK", "PTBA.JK",
	"PTG.JK", "SIDO.JK", "SMGR.JK", "SRTG.JK", "TBIG.JK", "TLKM.JK", "TOWR.JK",
	"TPIA.JK", "UNTR.JK", "UNVR.JK",
}

// Provider names accepted in data_source.provider.
const (
	ProviderYahoo   = "yahoo"
	ProviderBinance = "binance"
	ProviderREST    = "rest"
	ProviderMock    = "mock"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken        string `yaml:"bot_token"`
		ChatID          string `yaml:"chat_id"`
		CooldownSeconds int    `yaml:"cooldown_seconds"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider          string  `yaml:"provider"`
		BaseURL           string  `yaml:"base_url"`
		APIKey            string  `yaml:"api_key"`
		APISecret         string  `yaml:"api_secret"`
		Timezone          string  `yaml:"timezone"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"data_source"`
	Analysis struct {
		Symbol   string `yaml:"symbol"`
		Period   string `yaml:"period"`
		Interval string `yaml:"interval"`
		MinRows  int    `yaml:"min_rows"`
	} `yaml:"analysis"`
	Indicators calculator.Params   `yaml:"indicators"`
	Signals    strategy.Thresholds `yaml:"signals"`
	Backtest   struct {
		Commission float64 `yaml:"commission"`
		Strategy   string  `yaml:"strategy"`
	} `yaml:"backtest"`
	Watchlist struct {
		Symbols     []string `yaml:"symbols"`
		Period      string   `yaml:"period"`
		Interval    string   `yaml:"interval"`
		Concurrency int      `yaml:"concurrency"`
	} `yaml:"watchlist"`
	Schedule struct {
		ScanCron        string `yaml:"scan_cron"`
		ScreenCron      string `yaml:"screen_cron"`
		ScreenCriterion string `yaml:"screen_criterion"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath     string `yaml:"sqlite_path"`
		AlertStatePath string `yaml:"alert_state_path"`
	} `yaml:"database"`
	API struct {
		Addr string `yaml:"addr"`
	} `yaml:"api"`
	Proxy string `yaml:"proxy"`
}

// Default returns the configuration used when neither file nor environment set a value.
func Default() *Config {
	cfg := &Config{
		Indicators: calculator.DefaultParams(),
		Signals:    strategy.DefaultThresholds(),
	}
	cfg.Telegram.CooldownSeconds = int(strategy.DefaultCooldown / time.Second)
	cfg.DataSource.Provider = ProviderYahoo
	cfg.DataSource.Timezone = "Asia/Jakarta"
	cfg.DataSource.RequestsPerSecond = 10
	cfg.Analysis.Symbol = "BBCA.JK"
	cfg.Analysis.Period = "6mo"
	cfg.Analysis.Interval = "1d"
	cfg.Analysis.MinRows = collector.DefaultMinRows
	cfg.Backtest.Commission = backtest.DefaultConfig().Commission
	cfg.Backtest.Strategy = model.StrategyMACross.String()
	cfg.Watchlist.Symbols = append([]string(nil), LQ45...)
	cfg.Watchlist.Period = "6mo"
	cfg.Watchlist.Interval = "1d"
	cfg.Watchlist.Concurrency = 4
	// Weekdays, every 30 minutes during IDX trading hours (Asia/Jakarta).
	cfg.Schedule.ScanCron = "0 */30 9-15 * * 1-5"
	cfg.Schedule.ScreenCron = "0 30 16 * * 1-5"
	cfg.Schedule.ScreenCriterion = model.CriterionMACDBuy.String()
	cfg.Database.SQLitePath = "data/signal_sentinel.db"
	cfg.Database.AlertStatePath = "data/alert_state.json"
	cfg.API.Addr = ":8080"
	return cfg
}

// Load reads .env and the YAML file at path, then applies environment
// variable overrides. Missing files are not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := []struct {
		key string
		dst *string
	}{
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"DATA_PROVIDER", &c.DataSource.Provider},
		{"DATA_BASE_URL", &c.DataSource.BaseURL},
		{"DATA_API_KEY", &c.DataSource.APIKey},
		{"BINANCE_API_KEY", &c.DataSource.APIKey},
		{"BINANCE_SECRET_KEY", &c.DataSource.APISecret},
		{"HTTPS_PROXY", &c.Proxy},
		{"SQLITE_PATH", &c.Database.SQLitePath},
		{"API_ADDR", &c.API.Addr},
		{"CRON_SCAN", &c.Schedule.ScanCron},
		{"ALERT_STATE_PATH", &c.Database.AlertStatePath},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.key); v != "" {
			*o.dst = v
		}
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist.Symbols = splitSymbols(v)
	}
	if v := os.Getenv("COMMISSION"); v != "" {
		commission, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("COMMISSION: %w", err)
		}
		c.Backtest.Commission = commission
	}
	return nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate returns the first invalid setting.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderBinance, ProviderMock:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, binance, rest, mock", c.DataSource.Provider)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Telegram.CooldownSeconds < 0 {
		return fmt.Errorf("telegram.cooldown_seconds must not be negative")
	}
	if err := collector.ValidateSymbol(c.Analysis.Symbol); err != nil {
		return fmt.Errorf("analysis.symbol: %w", err)
	}
	if _, err := collector.ParsePeriod(c.Analysis.Period); err != nil {
		return fmt.Errorf("analysis.period: %w", err)
	}
	if _, err := model.ParseInterval(c.Analysis.Interval); err != nil {
		return fmt.Errorf("analysis.interval: %w", err)
	}
	if c.Analysis.MinRows <= 0 {
		return fmt.Errorf("analysis.min_rows must be positive")
	}
	if err := c.Indicators.Validate(); err != nil {
		return fmt.Errorf("indicators: %w", err)
	}
	if err := c.Signals.Validate(); err != nil {
		return fmt.Errorf("signals: %w", err)
	}
	if err := c.BacktestConfig().Validate(); err != nil {
		return fmt.Errorf("backtest: %w", err)
	}
	if len(c.Watchlist.Symbols) == 0 {
		return fmt.Errorf("watchlist.symbols must not be empty")
	}
	if _, err := collector.ParsePeriod(c.Watchlist.Period); err != nil {
		return fmt.Errorf("watchlist.period: %w", err)
	}
	if _, err := model.ParseInterval(c.Watchlist.Interval); err != nil {
		return fmt.Errorf("watchlist.interval: %w", err)
	}
	if c.Watchlist.Concurrency <= 0 {
		return fmt.Errorf("watchlist.concurrency must be positive")
	}
	if _, err := model.ParseCriterion(c.Schedule.ScreenCriterion); err != nil {
		return fmt.Errorf("schedule.screen_criterion: %w", err)
	}
	return nil
}

// Location returns the timezone bars are converted to.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DataSource.Timezone)
	if err != nil {
		return nil, fmt.Errorf("data_source.timezone: %w", err)
	}
	return loc, nil
}

// Cooldown returns the minimum gap between two alerts for one instrument.
func (c *Config) Cooldown() time.Duration {
	return time.Duration(c.Telegram.CooldownSeconds) * time.Second
}

// BacktestConfig returns the simulation constants with the configured commission
// and the signal RSI thresholds.
func (c *Config) BacktestConfig() backtest.Config {
	bc := backtest.DefaultConfig()
	bc.Commission = c.Backtest.Commission
	bc.RSIOversold = c.Signals.RSIOversold
	bc.RSIOverbought = c.Signals.RSIOverbought
	return bc
}

// TelegramEnabled reports whether both bot token and chat id are set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
