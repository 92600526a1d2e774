// Package history records dispatched command lines in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/commandflow/pkg/dispatch"
	_ "modernc.org/sqlite"
)

// ErrEmptyLine indicates an attempt to record a blank line.
var ErrEmptyLine = errors.New("history: empty line")

// Outcome classifies how a dispatch ended.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeUsage   Outcome = "usage"
	OutcomeDenied  Outcome = "denied"
	OutcomeUnknown Outcome = "unknown"
	OutcomeError   Outcome = "error"
)

const timeFormat = "2006-01-02T15:04:05.000000000Z"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS history (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	line      TEXT NOT NULL,
	command   TEXT NOT NULL DEFAULT '',
	outcome   TEXT NOT NULL,
	message   TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_timestamp ON history(timestamp);
`

// Entry is one recorded dispatch.
type Entry struct {
	ID        int64
	Line      string
	Command   string
	Outcome   Outcome
	Message   string
	Timestamp time.Time
}

// Store is a SQLite-backed dispatch history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("history: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("history: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores e and returns its ID. A zero timestamp is set to now.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if strings.TrimSpace(e.Line) == "" {
		return 0, ErrEmptyLine
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO history (line, command, outcome, message, timestamp) VALUES (?, ?, ?, ?, ?)`,
		e.Line, e.Command, string(e.Outcome), e.Message, e.Timestamp.UTC().Format(timeFormat))
	if err != nil {
		return 0, fmt.Errorf("history: record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("history: record: %w", err)
	}
	return id, nil
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, line, command, outcome, message, timestamp FROM history ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			outcome string
			ts      string
		)
		if err := rows.Scan(&e.ID, &e.Line, &e.Command, &outcome, &e.Message, &ts); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.Outcome = Outcome(outcome)
		if e.Timestamp, err = time.Parse(timeFormat, ts); err != nil {
			return nil, fmt.Errorf("history: entry %d: bad timestamp %q: %w", e.ID, ts, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: list: %w", err)
	}
	return entries, nil
}

// Lines returns up to limit distinct lines, newest first.
func (s *Store) Lines(ctx context.Context, limit int) ([]string, error) {
	entries, err := s.Recent(ctx, 0)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var lines []string
	for _, e := range entries {
		if seen[e.Line] {
			continue
		}
		seen[e.Line] = true
		lines = append(lines, e.Line)
		if limit > 0 && len(lines) == limit {
			break
		}
	}
	return lines, nil
}

// Prune deletes all but the newest keep entries and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("history: keep must be >= 0")
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM history WHERE id NOT IN (SELECT id FROM history ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("history: clear: %w", err)
	}
	return res.RowsAffected()
}

// OutcomeOf classifies the result of Manager.Execute.
func OutcomeOf(executed bool, err error) Outcome {
	var (
		usage  *dispatch.UsageError
		denied *dispatch.NotAuthorizedError
	)
	switch {
	case errors.As(err, &denied):
		return OutcomeDenied
	case errors.As(err, &usage):
		return OutcomeUsage
	case err != nil:
		return OutcomeError
	case !executed:
		return OutcomeUnknown
	default:
		return OutcomeOK
	}
}
