package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SignalSentinel/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id        TEXT NOT NULL,
			timestamp     INTEGER NOT NULL,
			trigger_type  TEXT,
			symbol        TEXT NOT NULL,
			bar_interval  TEXT,
			period        TEXT,
			bar_time      INTEGER,
			close         REAL,
			change_pct    REAL,
			rsi           REAL,
			rsi_state     TEXT,
			macd          REAL,
			macd_signal   REAL,
			macd_cross    TEXT,
			ma_bullish    INTEGER,
			double_bottom INTEGER,
			double_top    INTEGER,
			has_buy       INTEGER,
			has_sell      INTEGER,
			actions       TEXT,
			trends        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_symbol_ts ON analyses(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtests (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id            TEXT NOT NULL,
			timestamp         INTEGER NOT NULL,
			trigger_type      TEXT,
			symbol            TEXT NOT NULL,
			strategy          TEXT NOT NULL,
			period            TEXT,
			strategy_return   REAL,
			buy_hold_return   REAL,
			win_rate          REAL,
			profit_factor     REAL,
			max_drawdown      REAL,
			trades            INTEGER,
			commission_events INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtests_symbol_ts ON backtests(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS screens (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			trigger_type TEXT,
			criterion    TEXT NOT NULL,
			period       TEXT,
			scanned      INTEGER,
			failed       INTEGER,
			matched      INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS screen_matches (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			bar_time  INTEGER,
			close     REAL,
			volume    REAL,
			rsi       REAL,
			macd_hist REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_screen_matches_run ON screen_matches(run_id)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			side      TEXT,
			message   TEXT,
			delivered INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_ts ON notifications(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// nullable maps the undefined marker to NULL.
func nullable(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func joinTexts(signals []model.Signal) string {
	texts := make([]string, len(signals))
	for i, s := range signals {
		texts[i] = s.Text
	}
	return strings.Join(texts, "\n")
}

func (r *SQLiteRecorder) RecordAnalysis(evt *AnalysisEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sig := evt.Signal
	last := sig.Last
	sum := evt.Summary
	_, err := r.db.Exec(`INSERT INTO analyses
		(run_id, timestamp, trigger_type, symbol, bar_interval, period, bar_time,
		 close, change_pct, rsi, rsi_state, macd, macd_signal, macd_cross, ma_bullish,
		 double_bottom, double_top, has_buy, has_sell, actions, trends)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, r.now().Unix(), string(evt.Trigger), sig.Symbol, sig.Interval.String(), evt.Period,
		last.Time.Unix(), last.Close, nullable(sum.ChangePct), nullable(last.RSI), string(sum.RSIState),
		nullable(last.MACD), nullable(last.MACDSignal), string(sum.MACDCross), sum.Bullish,
		last.DoubleBottom, last.DoubleTop, sig.HasBuy(), sig.HasSell(),
		joinTexts(sig.Actions), joinTexts(sig.Trends),
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(evt *BacktestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := evt.Result
	m := res.Metrics
	_, err := r.db.Exec(`INSERT INTO backtests
		(run_id, timestamp, trigger_type, symbol, strategy, period,
		 strategy_return, buy_hold_return, win_rate, profit_factor, max_drawdown,
		 trades, commission_events)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.RunID, r.now().Unix(), string(evt.Trigger), res.Symbol, res.Strategy.String(), evt.Period,
		m.StrategyReturn, m.BuyHoldReturn, m.WinRate, nullable(m.ProfitFactor), m.MaxDrawdown,
		m.Trades, m.CommissionEvents,
	)
	return err
}

// RecordScreen writes the pass and its matches in one transaction.
func (r *SQLiteRecorder) RecordScreen(evt *ScreenEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO screens
		(run_id, timestamp, trigger_type, criterion, period, scanned, failed, matched)
		VALUES (?,?,?,?,?,?,?,?)`,
		evt.RunID, r.now().Unix(), string(evt.Trigger), evt.Criterion.String(), evt.Period,
		evt.Scanned, evt.Failed, len(evt.Matches),
	); err != nil {
		return fmt.Errorf("insert screen: %w", err)
	}
	for _, m := range evt.Matches {
		if _, err := tx.Exec(`INSERT INTO screen_matches
			(run_id, symbol, bar_time, close, volume, rsi, macd_hist)
			VALUES (?,?,?,?,?,?,?)`,
			evt.RunID, m.Symbol, m.Time.Unix(), m.Close, m.Volume, nullable(m.RSI), nullable(m.MACDHist),
		); err != nil {
			return fmt.Errorf("insert match %s: %w", m.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordNotification(evt *NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO notifications
		(run_id, timestamp, symbol, side, message, delivered, error)
		VALUES (?,?,?,?,?,?,?)`,
		evt.RunID, r.now().Unix(), evt.Symbol, string(evt.Side), evt.Message, evt.Delivered, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
