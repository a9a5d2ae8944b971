package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ForecastSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the decision journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycles (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			symbol         TEXT,
			price          REAL,
			rsi            REAL,
			sma            REAL,
			period_high    REAL,
			period_low     REAL,
			forecast_avg   REAL,
			horizon_days   INTEGER,
			quote_balance  REAL,
			base_balance   REAL,
			step_size      REAL,
			action         TEXT,
			quantity       REAL,
			reason         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycles_ts ON cycles(timestamp)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT,
			side       TEXT,
			quantity   REAL,
			order_id   TEXT,
			status     TEXT,
			quote_qty  REAL,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordCycle stores one cycle. Undefined indicators are stored as NULL.
func (r *SQLiteRecorder) RecordCycle(c *model.CycleReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := c.StartedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO cycles
		(timestamp, symbol, price, rsi, sma, period_high, period_low,
		 forecast_avg, horizon_days, quote_balance, base_balance, step_size,
		 action, quantity, reason)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ts.Unix(), c.Symbol, c.Price,
		nullable(c.Indicators.RSI, c.Indicators.HasRSI), nullable(c.Indicators.SMA, c.Indicators.HasSMA),
		c.Indicators.PeriodHigh, c.Indicators.PeriodLow,
		c.Forecast.AverageForecastPrice, c.Forecast.HorizonDays,
		c.Balances.Quote, c.Balances.Base, c.LotSize.StepSize,
		string(c.Action.Kind), c.Action.Quantity, c.Action.Reason,
	)
	return err
}

func (r *SQLiteRecorder) RecordOrder(evt *OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO orders
		(timestamp, symbol, side, quantity, order_id, status, quote_qty, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, string(evt.Side), evt.Quantity,
		evt.OrderID, evt.Status, evt.QuoteQty, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

func nullable(v float64, ok bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: ok}
}
