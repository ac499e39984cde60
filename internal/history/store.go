// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a journal of conversions in SQLite so that past
// runs can be listed and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// Status is the outcome of a journaled conversion.
type Status string

const (
	StatusConverted Status = "converted"
	StatusFailed    Status = "failed"
)

// Entry is one journaled conversion.
type Entry struct {
	RequestID  string        `json:"request_id" yaml:"request_id"`
	SourcePath string        `json:"source_path" yaml:"source_path"`
	OutputPath string        `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	DocType    string        `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`
	Engine     string        `json:"engine" yaml:"engine"`
	Status     Status        `json:"status" yaml:"status"`
	Error      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Pages      int           `json:"pages,omitempty" yaml:"pages,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// QueryOptions filters List.
type QueryOptions struct {
	// Limit caps the number of entries; zero means 50.
	Limit int
	// FailedOnly keeps only failed conversions.
	FailedOnly bool
	// Engine keeps only conversions by one engine.
	Engine string
}

const defaultLimit = 50

// timeLayout is fixed-width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the SQLite conversion journal.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the journal at path, creating parent
// directories and the schema as needed.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			request_id TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			output_path TEXT,
			doc_type TEXT,
			engine TEXT NOT NULL,
			status TEXT NOT NULL,
			error TEXT,
			pages INTEGER,
			started_at TEXT NOT NULL,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_started ON conversions(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// NewEntry builds the journal entry for a finished conversion. convErr is
// the error the conversion returned, if any.
func NewEntry(req types.Request, res types.Result, convErr error) Entry {
	e := Entry{
		RequestID:  req.ID,
		SourcePath: req.SourcePath,
		OutputPath: res.OutputPath,
		DocType:    string(req.DocType),
		Engine:     string(res.Engine),
		Status:     StatusConverted,
		Pages:      res.Pages,
		StartedAt:  res.StartedAt,
		Duration:   res.Duration(),
	}
	if e.Engine == "" {
		e.Engine = string(types.EngineNone)
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	if e.Duration < 0 {
		e.Duration = 0
	}
	if convErr != nil {
		e.Status = StatusFailed
		e.Error = convErr.Error()
	}
	return e
}

// Record stores an entry, replacing any entry with the same request ID.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO conversions
			(request_id, source_path, output_path, doc_type, engine, status, error, pages, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RequestID, e.SourcePath, e.OutputPath, e.DocType, e.Engine, string(e.Status),
		e.Error, e.Pages, e.StartedAt.UTC().Format(timeLayout), e.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.RequestID, err)
	}
	return nil
}

// List returns journal entries, newest first.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var where []string
	var args []any
	if opts.FailedOnly {
		where = append(where, "status = ?")
		args = append(args, string(StatusFailed))
	}
	if opts.Engine != "" {
		where = append(where, "engine = ?")
		args = append(args, opts.Engine)
	}

	query := `SELECT request_id, source_path, output_path, doc_type, engine, status, error, pages, started_at, duration_ms
		FROM conversions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY started_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                        Entry
			output, docType, errText sql.NullString
			pages, durationMS        sql.NullInt64
			status, started          string
		)
		if err := rows.Scan(&e.RequestID, &e.SourcePath, &output, &docType, &e.Engine,
			&status, &errText, &pages, &started, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		e.OutputPath = output.String
		e.DocType = docType.String
		e.Status = Status(status)
		e.Error = errText.String
		e.Pages = int(pages.Int64)
		e.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		if t, err := time.Parse(timeLayout, started); err == nil {
			e.StartedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
