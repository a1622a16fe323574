// Package memory provides an in-process RecordStore implementation.
//
// Records are held in a slice guarded by a mutex. Lessons stored here do not
// survive a process restart; use the file, sqlite, postgres, or redis stores
// for cross-session persistence.
package memory

import (
	"context"
	"sync"

	"github.com/smallnest/reflective/store"
)

// RecordStore is an in-memory, mutex-guarded implementation of
// store.RecordStore. Safe for concurrent use.
type RecordStore struct {
	mu      sync.RWMutex
	records []*store.Record
}

var _ store.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make([]*store.Record, 0),
	}
}

// Append stores a record.
func (s *RecordStore) Append(ctx context.Context, rec *store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy so callers cannot mutate stored state afterwards.
	cp := *rec
	s.records = append(s.records, &cp)
	return nil
}

// List returns up to limit records with the given tag, most recent first.
func (s *RecordStore) List(ctx context.Context, tag string, limit int) ([]*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*store.Record, 0)
	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Tag != tag {
			continue
		}
		cp := *s.records[i]
		results = append(results, &cp)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// All returns every record in insertion order.
func (s *RecordStore) All(ctx context.Context) ([]*store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*store.Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		results = append(results, &cp)
	}
	return results, nil
}

// Clear removes all records.
func (s *RecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
	return nil
}

// Len returns the number of stored records.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
