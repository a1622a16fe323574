// Package postgres provides a RecordStore backed by PostgreSQL.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smallnest/reflective/store"
)

// DBPool defines the interface for the database connection pool.
type DBPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// RecordStore implements store.RecordStore using PostgreSQL.
type RecordStore struct {
	pool      DBPool
	tableName string
}

var _ store.RecordStore = (*RecordStore)(nil)

// Options configuration for the Postgres connection.
type Options struct {
	ConnString string
	TableName  string // Default "episodic_records"
}

// NewRecordStore creates a new Postgres record store and ensures the schema
// exists.
func NewRecordStore(ctx context.Context, opts Options) (*RecordStore, error) {
	pool, err := pgxpool.New(ctx, opts.ConnString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	tableName := opts.TableName
	if tableName == "" {
		tableName = "episodic_records"
	}

	s := &RecordStore{
		pool:      pool,
		tableName: tableName,
	}

	if err := s.InitSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// NewRecordStoreWithPool creates a record store with an existing pool.
// Useful for testing with mocks.
func NewRecordStoreWithPool(pool DBPool, tableName string) *RecordStore {
	if tableName == "" {
		tableName = "episodic_records"
	}
	return &RecordStore{
		pool:      pool,
		tableName: tableName,
	}
}

// InitSchema creates the necessary table if it doesn't exist.
func (s *RecordStore) InitSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			seq BIGSERIAL PRIMARY KEY,
			id TEXT NOT NULL,
			tag TEXT NOT NULL,
			kind TEXT NOT NULL,
			task TEXT NOT NULL,
			draft TEXT,
			diagnostic TEXT,
			lesson TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_%s_tag ON %s (tag);
	`, s.tableName, s.tableName, s.tableName)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *RecordStore) Close() {
	s.pool.Close()
}

// Append stores a record.
func (s *RecordStore) Append(ctx context.Context, rec *store.Record) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, tag, kind, task, draft, diagnostic, lesson, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, s.tableName)

	_, err := s.pool.Exec(ctx, query,
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
func (s *RecordStore) List(ctx context.Context, tag string, limit int) ([]*store.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, tag, kind, task, draft, diagnostic, lesson, created_at
		FROM %s
		WHERE tag = $1
		ORDER BY seq DESC
	`, s.tableName)

	args := []any{tag}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
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

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Clear removes all records.
func (s *RecordStore) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", s.tableName)
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

func scanRecords(rows pgx.Rows) ([]*store.Record, error) {
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
