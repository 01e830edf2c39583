package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"StockEstimator/internal/logger"
	"StockEstimator/internal/model"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists fetch history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets the UI server read history while a fetch is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.OrNop(log), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetch_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			base_url   TEXT,
			ticker     TEXT,
			since      TEXT,
			till       TEXT,
			samples    INTEGER,
			headline   TEXT,
			error      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_ts ON fetch_history(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_fetch_session ON fetch_history(session_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordFetch(evt *FetchEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := evt.Timestamp
	if ts.IsZero() {
		ts = r.now()
	}
	_, err := r.db.Exec(`INSERT INTO fetch_history
		(session_id, timestamp, base_url, ticker, since, till, samples, headline, error)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		evt.SessionID, ts.UnixMilli(), evt.BaseURL,
		string(evt.Selection.Ticker), evt.Selection.Since, evt.Selection.Till,
		evt.Samples, evt.Headline, evt.Error,
	)
	if err != nil {
		return fmt.Errorf("insert fetch: %w", err)
	}
	return nil
}

// RecentFetches returns up to limit events, newest first.
func (r *SQLiteRecorder) RecentFetches(limit int) ([]FetchEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT session_id, timestamp, base_url, ticker, since, till, samples, headline, error
		FROM fetch_history ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fetch history: %w", err)
	}
	defer rows.Close()

	var out []FetchEvent
	for rows.Next() {
		var (
			evt    FetchEvent
			ts     int64
			ticker string
		)
		if err := rows.Scan(&evt.SessionID, &ts, &evt.BaseURL, &ticker,
			&evt.Selection.Since, &evt.Selection.Till, &evt.Samples, &evt.Headline, &evt.Error); err != nil {
			return nil, fmt.Errorf("scan fetch history: %w", err)
		}
		evt.Timestamp = time.UnixMilli(ts).UTC()
		evt.Selection.Ticker = model.Ticker(ticker)
		out = append(out, evt)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
