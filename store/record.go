package store

import (
	"context"
	"time"
)

// Kind classifies a persisted record.
type Kind string

const (
	// KindLesson marks a takeaway extracted from a failed attempt.
	KindLesson Kind = "lesson"

	// KindSuccess marks a pattern captured from a passed attempt.
	KindSuccess Kind = "success"
)

// Record is one persisted takeaway from a task run. Records are append-only:
// once written they are never mutated or deleted individually.
type Record struct {
	ID         string    `json:"id"`
	Tag        string    `json:"tag"`
	Kind       Kind      `json:"kind"`
	Task       string    `json:"task"`
	Draft      string    `json:"draft"`
	Diagnostic string    `json:"diagnostic"`
	Lesson     string    `json:"lesson"`
	CreatedAt  time.Time `json:"created_at"`
}

// RecordStore defines the interface for episodic record persistence.
//
// Implementations must be safe for concurrent use: Append must not lose
// writes, and List/All must observe either the state before or after any
// concurrent Append, never a partial entry.
type RecordStore interface {
	// Append stores a record. The record is persisted as given; callers are
	// responsible for assigning IDs and timestamps.
	Append(ctx context.Context, rec *Record) error

	// List returns up to limit records whose tag exactly matches tag,
	// most recent first. A non-positive limit means no limit. A tag with no
	// records yields an empty slice, not an error.
	List(ctx context.Context, tag string, limit int) ([]*Record, error)

	// All returns every record in insertion order, oldest first.
	All(ctx context.Context) ([]*Record, error)

	// Clear removes all records.
	Clear(ctx context.Context) error
}
