// Package file provides a JSON-file backed RecordStore implementation.
//
// The whole record log lives in one file, loaded on open and rewritten on
// every append. This keeps the format trivially inspectable and is plenty for
// the write rates of a workflow that appends at most one record per task.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/smallnest/reflective/store"
)

// fileFormat is the on-disk document.
type fileFormat struct {
	Records []*store.Record `json:"records"`
}

// RecordStore persists records in a single JSON file. Safe for concurrent
// use within one process; it does not coordinate between processes.
type RecordStore struct {
	mu      sync.RWMutex
	path    string
	records []*store.Record
}

var _ store.RecordStore = (*RecordStore)(nil)

// NewRecordStore opens (or creates) the record file at path.
func NewRecordStore(path string) (*RecordStore, error) {
	s := &RecordStore{
		path:    path,
		records: make([]*store.Record, 0),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *RecordStore) Path() string {
	return s.path
}

func (s *RecordStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read record file: %w", err)
	}

	var doc fileFormat
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse record file %s: %w", s.path, err)
	}
	if doc.Records != nil {
		s.records = doc.Records
	}
	return nil
}

// flush writes the full log to a temp file and renames it into place, so a
// crash mid-write never leaves a truncated file behind.
func (s *RecordStore) flush() error {
	data, err := json.MarshalIndent(fileFormat{Records: s.records}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".records-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write records: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace record file: %w", err)
	}
	return nil
}

// Append stores a record and flushes the log to disk.
func (s *RecordStore) Append(ctx context.Context, rec *store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	s.records = append(s.records, &cp)
	if err := s.flush(); err != nil {
		// Roll back the in-memory append so memory and disk agree.
		s.records = s.records[:len(s.records)-1]
		return err
	}
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

// Clear removes all records and rewrites the file.
func (s *RecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.records
	s.records = make([]*store.Record, 0)
	if err := s.flush(); err != nil {
		s.records = old
		return err
	}
	return nil
}
