// Package sqlite provides the SQLite-backed query log used for usage
// reporting.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/policyqa/internal/core/domain"
	"github.com/custodia-labs/policyqa/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.QueryLogStore = (*Store)(nil)

const schema = `
	CREATE TABLE IF NOT EXISTS query_log (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp  DATETIME NOT NULL,
		question   TEXT NOT NULL,
		intent     TEXT NOT NULL,
		answer     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_query_log_timestamp ON query_log(timestamp);
`

// Store is a SQLite-backed query log.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new query log store at the specified data directory.
// If dataDir is empty, defaults to ~/.policyqa/data/querylog.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".policyqa", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "querylog.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Append stores one log entry.
func (s *Store) Append(ctx context.Context, entry domain.QueryLogEntry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO query_log (timestamp, question, intent, answer)
		VALUES (?, ?, ?, ?)
	`, ts.UTC(), entry.Question, entry.Intent, entry.Answer)
	if err != nil {
		return fmt.Errorf("inserting query log entry: %w", err)
	}
	return nil
}

// Report aggregates entries newer than now minus window.
func (s *Store) Report(ctx context.Context, window time.Duration) (domain.QueryReport, error) {
	since := time.Now().Add(-window).UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT intent, COUNT(*)
		FROM query_log
		WHERE timestamp >= ?
		GROUP BY intent
	`, since)
	if err != nil {
		return domain.QueryReport{}, fmt.Errorf("querying log: %w", err)
	}
	defer rows.Close()

	report := domain.QueryReport{
		ByIntent: make(map[string]int),
		Window:   window,
	}
	for rows.Next() {
		var intent string
		var count int
		if err := rows.Scan(&intent, &count); err != nil {
			return domain.QueryReport{}, fmt.Errorf("scanning row: %w", err)
		}
		report.ByIntent[intent] = count
		report.TotalQueries += count
	}
	if err := rows.Err(); err != nil {
		return domain.QueryReport{}, fmt.Errorf("iterating rows: %w", err)
	}

	return report, nil
}
