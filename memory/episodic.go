package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/reflective/log"
	"github.com/smallnest/reflective/store"
)

// Entry describes one takeaway to persist from a task run.
type Entry struct {
	// Tag is the task category used as the retrieval key, e.g. "string-processing".
	Tag string

	// Task is the task description the entry originated from.
	Task string

	// Draft is the attempted solution.
	Draft string

	// Diagnostic is the validator error or critique that accompanied the attempt.
	Diagnostic string

	// Lesson is the takeaway itself.
	Lesson string
}

// EpisodicMemory manages lessons and success patterns across tasks on top of
// a pluggable record store.
//
// Retrieval is exact-tag match plus recency only. Semantic retrieval over
// past lessons (e.g. embedding similarity) is a possible future improvement,
// not implemented behavior.
type EpisodicMemory struct {
	store  store.RecordStore
	logger log.Logger
}

// Stats summarizes the contents of the memory.
type Stats struct {
	Total       int
	Successes   int
	Failures    int
	SuccessRate float64
}

// NewEpisodicMemory creates an episodic memory over the given store.
func NewEpisodicMemory(st store.RecordStore) *EpisodicMemory {
	return &EpisodicMemory{
		store:  st,
		logger: log.GetDefaultLogger(),
	}
}

// SetLogger replaces the memory's logger.
func (m *EpisodicMemory) SetLogger(logger log.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

func (m *EpisodicMemory) record(ctx context.Context, kind store.Kind, e Entry) error {
	rec := &store.Record{
		ID:         uuid.New().String(),
		Tag:        e.Tag,
		Kind:       kind,
		Task:       e.Task,
		Draft:      e.Draft,
		Diagnostic: e.Diagnostic,
		Lesson:     e.Lesson,
		CreatedAt:  time.Now().UTC(),
	}
	if err := m.store.Append(ctx, rec); err != nil {
		return fmt.Errorf("failed to record %s: %w", kind, err)
	}
	m.logger.Debug("recorded %s for tag %q", kind, e.Tag)
	return nil
}

// RecordLesson appends a lesson extracted from a failed attempt.
func (m *EpisodicMemory) RecordLesson(ctx context.Context, e Entry) error {
	return m.record(ctx, store.KindLesson, e)
}

// RecordSuccess appends a success pattern captured from a passed attempt.
func (m *EpisodicMemory) RecordSuccess(ctx context.Context, e Entry) error {
	return m.record(ctx, store.KindSuccess, e)
}

// Lessons returns up to limit lesson texts for the given tag, most recent
// first. Success patterns are included as well: a pattern that worked is as
// useful to the next prompt as a failure to avoid.
func (m *EpisodicMemory) Lessons(ctx context.Context, tag string, limit int) ([]string, error) {
	records, err := m.store.List(ctx, tag, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve lessons for tag %q: %w", tag, err)
	}

	lessons := make([]string, 0, len(records))
	for _, rec := range records {
		lessons = append(lessons, rec.Lesson)
	}
	return lessons, nil
}

// SuccessPatterns returns all records captured from passed attempts.
func (m *EpisodicMemory) SuccessPatterns(ctx context.Context) ([]*store.Record, error) {
	return m.filterByKind(ctx, store.KindSuccess)
}

// FailurePatterns returns all records captured from failed attempts.
func (m *EpisodicMemory) FailurePatterns(ctx context.Context) ([]*store.Record, error) {
	return m.filterByKind(ctx, store.KindLesson)
}

func (m *EpisodicMemory) filterByKind(ctx context.Context, kind store.Kind) ([]*store.Record, error) {
	all, err := m.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	result := make([]*store.Record, 0)
	for _, rec := range all {
		if rec.Kind == kind {
			result = append(result, rec)
		}
	}
	return result, nil
}

// Stats returns memory statistics.
func (m *EpisodicMemory) Stats(ctx context.Context) (*Stats, error) {
	all, err := m.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	stats := &Stats{Total: len(all)}
	for _, rec := range all {
		if rec.Kind == store.KindSuccess {
			stats.Successes++
		} else {
			stats.Failures++
		}
	}
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Successes) / float64(stats.Total)
	}
	return stats, nil
}

// Clear removes all memories. Lessons never expire otherwise; unbounded
// growth is an accepted limitation of the base design.
func (m *EpisodicMemory) Clear(ctx context.Context) error {
	return m.store.Clear(ctx)
}
