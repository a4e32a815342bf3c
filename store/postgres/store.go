// Package postgres keeps the markers of each file in a PostgreSQL table.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/securego/revmark/marker"
	"github.com/securego/revmark/violation"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS revmark_markers (
  id            BIGSERIAL PRIMARY KEY,
  file          TEXT        NOT NULL,
  type          TEXT        NOT NULL,
  rule          TEXT        NOT NULL,
  message       TEXT        NOT NULL,
  line          INT         NOT NULL,
  end_line      INT         NOT NULL,
  col           INT         NOT NULL DEFAULT 0,
  priority      INT         NOT NULL,
  severity      INT         NOT NULL,
  priority_flag INT         NOT NULL DEFAULT 0,
  autofix       TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ DEFAULT now()
);

CREATE INDEX IF NOT EXISTS revmark_markers_file_idx ON revmark_markers (file);
`

var columns = []string{
	"file", "type", "rule", "message", "line", "end_line", "col",
	"priority", "severity", "priority_flag", "autofix",
}

// Store is an accumulator backed by PostgreSQL. Each file is replaced in one
// transaction, so readers never see a half written file.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects with lib/pq and checks the connection
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return New(db), nil
}

// Close releases the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the marker table when missing
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("postgres: failed to deploy schema: %w", err)
	}
	return nil
}

// Replace implements revmark.Accumulator
func (s *Store) Replace(file string, records []*marker.Record) error {
	return s.ReplaceContext(context.Background(), file, records)
}

// ReplaceContext deletes the markers of file and bulk loads the new ones
func (s *Store) ReplaceContext(ctx context.Context, file string, records []*marker.Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM revmark_markers WHERE file = $1`, file); err != nil {
		return fmt.Errorf("postgres: delete %s: %w", file, err)
	}

	if len(records) > 0 {
		if err = copyRecords(ctx, tx, file, records); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit %s: %w", file, err)
	}
	return nil
}

func copyRecords(ctx context.Context, tx *sql.Tx, file string, records []*marker.Record) error {
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("revmark_markers", columns...))
	if err != nil {
		return fmt.Errorf("postgres: copy %s: %w", file, err)
	}
	for _, r := range records {
		_, err = stmt.ExecContext(ctx, file, r.Type, r.RuleName, r.Message, r.Line, r.EndLine, r.Column,
			int(r.Priority), int(r.Severity), int(r.PriorityFlag), r.Autofix)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("postgres: copy %s: %w", file, err)
		}
	}
	// an empty exec flushes the copy buffer
	if _, err = stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("postgres: copy %s: %w", file, err)
	}
	return stmt.Close()
}

// Markers returns the stored markers of file ordered by line
func (s *Store) Markers(ctx context.Context, file string) ([]*marker.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT type, rule, message, line, end_line, col, priority, severity, priority_flag, autofix
FROM revmark_markers WHERE file = $1 ORDER BY line, id`, file)
	if err != nil {
		return nil, fmt.Errorf("postgres: query %s: %w", file, err)
	}
	defer rows.Close()

	var records []*marker.Record
	for rows.Next() {
		r := &marker.Record{File: file}
		var priority, severity, flag int
		if err := rows.Scan(&r.Type, &r.RuleName, &r.Message, &r.Line, &r.EndLine, &r.Column,
			&priority, &severity, &flag, &r.Autofix); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", file, err)
		}
		r.Priority = violation.Priority(priority)
		r.Severity = marker.Severity(severity)
		r.PriorityFlag = marker.Flag(flag)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Files lists the files holding at least one marker
func (s *Store) Files(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT file FROM revmark_markers ORDER BY file`)
	if err != nil {
		return nil, fmt.Errorf("postgres: query files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
