// Package store keeps translated facility names in a SQLite database, so
// earlier batch results can be searched and flagged rows reviewed later.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/hindiname/internal/facility"
	"codeberg.org/snonux/hindiname/internal/normalize"
	"codeberg.org/snonux/hindiname/internal/translation"
)

// ErrNotFound is returned by Lookup when no record matches.
var ErrNotFound = errors.New("no matching facility found")

// MatchKind tells how a lookup matched.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchSubstring MatchKind = "substring"
	MatchReverse   MatchKind = "reverse"
)

// Record is one stored translation.
type Record struct {
	Key       string
	Name      string
	Hindi     string
	Kind      facility.Kind
	Template  string
	Source    string
	Flagged   bool
	Unknown   []string
	UpdatedAt time.Time
}

// NewRecord builds a record from a translated name.
func NewRecord(name string, res translation.Result) Record {
	key := res.Key
	if key == "" {
		key = normalize.Normalize(name)
	}
	return Record{
		Key:      key,
		Name:     name,
		Hindi:    res.Hindi,
		Kind:     res.Kind,
		Template: res.Template,
		Source:   string(res.Source),
		Flagged:  res.Flagged,
		Unknown:  res.Unknown,
	}
}

// Store is a SQLite backed record store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and makes sure the schema
// exists.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.createTables(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS facilities (
			key TEXT PRIMARY KEY,
			lab_name TEXT NOT NULL,
			hindi TEXT NOT NULL,
			kind TEXT NOT NULL,
			template TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			flagged INTEGER NOT NULL DEFAULT 0,
			unknown TEXT NOT NULL DEFAULT '',
			updated_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_facilities_flagged ON facilities (flagged)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Save inserts or replaces records by key in one transaction. Records with
// an empty key are skipped.
func (s *Store) Save(ctx context.Context, records ...Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO facilities
		(key, lab_name, hindi, kind, template, source, flagged, unknown, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			lab_name = excluded.lab_name,
			hindi = excluded.hindi,
			kind = excluded.kind,
			template = excluded.template,
			source = excluded.source,
			flagged = excluded.flagged,
			unknown = excluded.unknown,
			updated_at = excluded.updated_at`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for _, r := range records {
		if r.Key == "" {
			continue
		}
		updated := now
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Unix()
		}
		_, err := stmt.ExecContext(ctx,
			r.Key,
			r.Name,
			r.Hindi,
			r.Kind.String(),
			r.Template,
			r.Source,
			boolToInt(r.Flagged),
			strings.Join(r.Unknown, " "),
			updated,
		)
		if err != nil {
			return fmt.Errorf("failed to save %q: %w", r.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Lookup searches stored names. The query is normalized like a facility
// name and tried as an exact key first, then as a substring of stored keys
// and finally the other way round, stored keys contained in the query. The
// first stage with hits wins; at most limit records are returned ordered by
// key. A limit of zero or less means no limit.
func (s *Store) Lookup(ctx context.Context, query string, limit int) ([]Record, MatchKind, error) {
	key := normalize.Normalize(query)
	if key == "" {
		return nil, "", ErrNotFound
	}

	stages := []struct {
		kind  MatchKind
		where string
	}{
		{MatchExact, `key = ?`},
		{MatchSubstring, `instr(key, ?) > 0`},
		{MatchReverse, `instr(?, key) > 0`},
	}

	for _, stage := range stages {
		records, err := s.query(ctx, stage.where, limit, key)
		if err != nil {
			return nil, "", err
		}
		if len(records) > 0 {
			return records, stage.kind, nil
		}
	}
	return nil, "", ErrNotFound
}

// Flagged returns all records whose Hindi still needs review.
func (s *Store) Flagged(ctx context.Context) ([]Record, error) {
	return s.query(ctx, `flagged = 1`, 0)
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM facilities`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

func (s *Store) query(ctx context.Context, where string, limit int, args ...any) ([]Record, error) {
	query := `SELECT key, lab_name, hindi, kind, template, source, flagged, unknown, updated_at
		FROM facilities WHERE ` + where + ` ORDER BY key`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query facilities: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			r       Record
			kind    string
			flagged int
			unknown string
			updated int64
		)
		if err := rows.Scan(&r.Key, &r.Name, &r.Hindi, &kind, &r.Template, &r.Source, &flagged, &unknown, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		r.Kind, _ = facility.ParseKind(kind)
		r.Flagged = flagged != 0
		r.Unknown = strings.Fields(unknown)
		r.UpdatedAt = time.Unix(updated, 0)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
