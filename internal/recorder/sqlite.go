package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
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
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			stock_count    INTEGER,
			fetch_failures INTEGER,
			ind_short      REAL,
			ind_long       REAL,
			holdable       INTEGER,
			on_hand        INTEGER,
			intent         TEXT,
			order_price    REAL,
			order_qty      INTEGER,
			order_placed   INTEGER,
			note           TEXT,
			elapsed_ms     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(timestamp, stock_count, fetch_failures, ind_short, ind_long,
		 holdable, on_hand, intent, order_price, order_qty, order_placed,
		 note, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.StockCount, rec.FetchFailures,
		rec.IndShort, rec.IndLong,
		rec.Holdable, rec.OnHand, rec.Intent.String(),
		rec.OrderPrice, rec.OrderQty, rec.OrderPlaced,
		rec.Note, rec.ElapsedMs,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
