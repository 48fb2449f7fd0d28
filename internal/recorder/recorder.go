// Package recorder persists telemetry rows to a SQLite flight log.
package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/simlink-project/simlink/internal/util"
)

const schema = `
CREATE TABLE IF NOT EXISTS telemetry (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	request_id INTEGER NOT NULL,
	object_id INTEGER NOT NULL,
	fields TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_telemetry_recorded_at ON telemetry(recorded_at);
`

// Row is one persisted telemetry sample.
type Row struct {
	ID         int64              `json:"id"`
	RecordedAt time.Time          `json:"recorded_at"`
	RequestID  uint32             `json:"request_id"`
	ObjectID   uint32             `json:"object_id"`
	Fields     map[string]float64 `json:"fields"`
}

// Recorder wraps a SQLite flight log with thread-safe access.
type Recorder struct {
	mu     sync.Mutex
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the flight log at the given path.
func Open(path string) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create recorder directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open flight log %s: %w", path, err)
	}

	// SQLite does not support concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger := util.ComponentLogger("recorder")
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		logger.Warn().Err(err).Msg("failed to enable WAL mode")
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create flight log schema: %w", err)
	}

	logger.Info().Str("path", path).Msg("flight log opened")
	return &Recorder{db: db, logger: logger}, nil
}

// Record appends one telemetry sample.
func (r *Recorder) Record(requestID, objectID uint32, fields map[string]float64) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode telemetry fields: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = r.db.Exec(
		"INSERT INTO telemetry (recorded_at, request_id, object_id, fields) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339Nano), requestID, objectID, string(data),
	)
	if err != nil {
		return fmt.Errorf("insert telemetry row: %w", err)
	}
	return nil
}

// Recent returns the newest limit samples, newest first.
func (r *Recorder) Recent(limit int) ([]Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(
		"SELECT id, recorded_at, request_id, object_id, fields FROM telemetry ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query telemetry rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			row    Row
			stamp  string
			fields string
		)
		if err := rows.Scan(&row.ID, &stamp, &row.RequestID, &row.ObjectID, &fields); err != nil {
			return nil, fmt.Errorf("scan telemetry row: %w", err)
		}
		row.RecordedAt, _ = time.Parse(time.RFC3339Nano, stamp)
		if err := json.Unmarshal([]byte(fields), &row.Fields); err != nil {
			r.logger.Warn().Err(err).Int64("id", row.ID).Msg("corrupt fields payload")
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close closes the flight log.
func (r *Recorder) Close() error {
	return r.db.Close()
}
