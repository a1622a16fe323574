// Package sqlite provides a RecordStore backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/smallnest/reflective/store"
)

// RecordStore implements store.RecordStore using SQLite.
type RecordStore struct {
	db        *sql.DB
	tableName string
}

var _ store.RecordStore = (*RecordStore)(nil)

// Options configuration for the SQLite connection.
type Options struct {
	Path      string
	TableName string // Default "episodic_records"
}

// NewRecordStore opens a SQLite database and ensures the schema exists.
func NewRecordStore(opts Options) (*RecordStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "episodic_records"
	}

	s := &RecordStore{
		db:        db,
		tableName: tableName,
	}

	if err := s.InitSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// InitSchema creates the necessary table if it doesn't exist.
func (s *RecordStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			tag TEXT NOT NULL,
			kind TEXT NOT NULL,
			task TEXT NOT NULL,
			draft TEXT,
			diagnostic TEXT,
			lesson TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_tag ON %s (tag);
	`, s.tableName, s.tableName, s.tableName)

	_, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *RecordStore) Close() error {
	return s.db.Close()
}

// Append stores a record.
func (s *RecordStore) Append(ctx context.Context, rec *store.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, tag, kind, task, draft, diagnostic, lesson, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.tableName)

	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.Tag,
		string(rec.Kind),
		rec.Task,
		rec.Draft,
		rec.Diagnostic,
		rec.Lesson,
		rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// List returns up to limit records with the given tag, most recent first.
// Ordering is by insertion sequence, not timestamp, so retrieval is
// deterministic even when clocks collide.
func (s *RecordStore) List(ctx context.Context, tag string, limit int) ([]*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, tag, kind, task, draft, diagnostic, lesson, created_at
		FROM %s
		WHERE tag = ?
		ORDER BY seq DESC
	`, s.tableName)

	args := []any{tag}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// All returns every record in insertion order.
func (s *RecordStore) All(ctx context.Context) ([]*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, tag, kind, task, draft, diagnostic, lesson, created_at
		FROM %s
		ORDER BY seq ASC
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Clear removes all records.
func (s *RecordStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

func scanRecords(rows *sql.Rows) ([]*store.Record, error) {
	records := make([]*store.Record, 0)
	for rows.Next() {
		var rec store.Record
		var kind string

		err := rows.Scan(
			&rec.ID,
			&rec.Tag,
			&kind,
			&rec.Task,
			&rec.Draft,
			&rec.Diagnostic,
			&rec.Lesson,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record row: %w", err)
		}
		rec.Kind = store.Kind(kind)
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating record rows: %w", err)
	}
	return records, nil
}
