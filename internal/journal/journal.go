// Package journal persists a per-decision audit trail. It is a thin I/O
// collaborator: the engine never reads it back for decision logic, only the
// status surface does.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Record is one journaled decision.
type Record struct {
	ID        string    `json:"id"`
	Day       string    `json:"day"`
	Timestamp time.Time `json:"timestamp"`
	Minute    int       `json:"minute"`
	Action    string    `json:"action"`
	Ticker    string    `json:"ticker,omitempty"`
	Leverage  int       `json:"leverage,omitempty"`
	SizePct   int       `json:"size_pct,omitempty"`
	Reason    string    `json:"reason"`
	Balance   float64   `json:"balance"`
}

// Journal is a sqlite-backed append log of decisions.
type Journal struct {
	db *sql.DB
	mu sync.Mutex
}

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id        TEXT PRIMARY KEY,
	day       TEXT NOT NULL,
	ts        TEXT NOT NULL,
	minute    INTEGER NOT NULL,
	action    TEXT NOT NULL,
	ticker    TEXT,
	leverage  INTEGER,
	size_pct  INTEGER,
	reason    TEXT,
	balance   REAL
);
CREATE INDEX IF NOT EXISTS idx_decisions_day ON decisions(day);
`

// Open creates the database file (and its directory) if needed and applies
// the schema. WAL keeps appends cheap for the once-a-minute write pattern.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}
	return &Journal{db: db}, nil
}

// Append writes one decision record. Assigns an ID and timestamp when the
// caller left them empty.
func (j *Journal) Append(ctx context.Context, rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	_, err := j.db.ExecContext(ctx,
		`INSERT INTO decisions (id, day, ts, minute, action, ticker, leverage, size_pct, reason, balance)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Day, rec.Timestamp.Format(time.RFC3339), rec.Minute,
		rec.Action, rec.Ticker, rec.Leverage, rec.SizePct, rec.Reason, rec.Balance,
	)
	if err != nil {
		return fmt.Errorf("append decision: %w", err)
	}
	return nil
}

// LastN returns the most recent n records, newest first.
func (j *Journal) LastN(ctx context.Context, n int) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT id, day, ts, minute, action, ticker, leverage, size_pct, reason, balance
		 FROM decisions ORDER BY ts DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var ts string
		if err := rows.Scan(&rec.ID, &rec.Day, &ts, &rec.Minute, &rec.Action,
			&rec.Ticker, &rec.Leverage, &rec.SizePct, &rec.Reason, &rec.Balance); err != nil {
			return nil, err
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339, ts)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *Journal) Close() error {
	return j.db.Close()
}
