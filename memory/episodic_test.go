package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/reflective/store"
	memstore "github.com/smallnest/reflective/store/memory"
)

func TestEpisodicMemory_RecordAndRetrieve(t *testing.T) {
	ctx := context.Background()
	mem := NewEpisodicMemory(memstore.NewRecordStore())

	err := mem.RecordLesson(ctx, Entry{
		Tag:        "string-processing",
		Task:       "reverse a string",
		Draft:      "def reverse(s): return s[::-2]",
		Diagnostic: "expected 'cba', got 'ca'",
		Lesson:     "use s[::-1] for full reversal",
	})
	require.NoError(t, err)

	err = mem.RecordLesson(ctx, Entry{
		Tag:    "string-processing",
		Lesson: "handle the empty string",
	})
	require.NoError(t, err)

	err = mem.RecordLesson(ctx, Entry{
		Tag:    "math",
		Lesson: "integer division truncates",
	})
	require.NoError(t, err)

	lessons, err := mem.Lessons(ctx, "string-processing", 0)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	// Most recent first.
	assert.Equal(t, "handle the empty string", lessons[0])
	assert.Equal(t, "use s[::-1] for full reversal", lessons[1])
}

func TestEpisodicMemory_LessonsLimit(t *testing.T) {
	ctx := context.Background()
	mem := NewEpisodicMemory(memstore.NewRecordStore())

	for i := 0; i < 5; i++ {
		require.NoError(t, mem.RecordLesson(ctx, Entry{Tag: "t", Lesson: "l"}))
	}

	lessons, err := mem.Lessons(ctx, "t", 3)
	require.NoError(t, err)
	assert.Len(t, lessons, 3)
}

func TestEpisodicMemory_UnknownTag(t *testing.T) {
	ctx := context.Background()
	mem := NewEpisodicMemory(memstore.NewRecordStore())

	lessons, err := mem.Lessons(ctx, "nothing-here", 5)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestEpisodicMemory_SuccessAndFailurePatterns(t *testing.T) {
	ctx := context.Background()
	mem := NewEpisodicMemory(memstore.NewRecordStore())

	require.NoError(t, mem.RecordLesson(ctx, Entry{Tag: "a", Lesson: "bad"}))
	require.NoError(t, mem.RecordSuccess(ctx, Entry{Tag: "a", Lesson: "good"}))
	require.NoError(t, mem.RecordSuccess(ctx, Entry{Tag: "b", Lesson: "also good"}))

	successes, err := mem.SuccessPatterns(ctx)
	require.NoError(t, err)
	require.Len(t, successes, 2)
	for _, rec := range successes {
		assert.Equal(t, store.KindSuccess, rec.Kind)
	}

	failures, err := mem.FailurePatterns(ctx)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	assert.Equal(t, "bad", failures[0].Lesson)
}

func TestEpisodicMemory_Stats(t *testing.T) {
	ctx := context.Background()
	mem := NewEpisodicMemory(memstore.NewRecordStore())

	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.SuccessRate)

	require.NoError(t, mem.RecordSuccess(ctx, Entry{Tag: "a"}))
	require.NoError(t, mem.RecordLesson(ctx, Entry{Tag: "a"}))
	require.NoError(t, mem.RecordSuccess(ctx, Entry{Tag: "b"}))
	require.NoError(t, mem.RecordSuccess(ctx, Entry{Tag: "b"}))

	stats, err = mem.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Successes)
	assert.Equal(t, 1, stats.Failures)
	assert.InDelta(t, 0.75, stats.SuccessRate, 1e-9)
}

func TestEpisodicMemory_Clear(t *testing.T) {
	ctx := context.Background()
	mem := NewEpisodicMemory(memstore.NewRecordStore())

	require.NoError(t, mem.RecordLesson(ctx, Entry{Tag: "a", Lesson: "x"}))
	require.NoError(t, mem.Clear(ctx))

	stats, err := mem.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

type failingStore struct{}

func (failingStore) Append(ctx context.Context, rec *store.Record) error { return errors.New("boom") }
func (failingStore) List(ctx context.Context, tag string, limit int) ([]*store.Record, error) {
	return nil, errors.New("boom")
}
func (failingStore) All(ctx context.Context) ([]*store.Record, error) { return nil, errors.New("boom") }
func (failingStore) Clear(ctx context.Context) error                  { return errors.New("boom") }

func TestEpisodicMemory_StoreErrors(t *testing.T) {
	ctx := context.Background()
	mem := NewEpisodicMemory(failingStore{})

	assert.Error(t, mem.RecordLesson(ctx, Entry{Tag: "a"}))
	assert.Error(t, mem.RecordSuccess(ctx, Entry{Tag: "a"}))

	_, err := mem.Lessons(ctx, "a", 1)
	assert.Error(t, err)

	_, err = mem.Stats(ctx)
	assert.Error(t, err)
}
