package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/reflective/store"
)

func newTestStore(t *testing.T) (*RecordStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memory.json")
	s, err := NewRecordStore(path)
	require.NoError(t, err)
	return s, path
}

func rec(tag, lesson string, kind store.Kind) *store.Record {
	return &store.Record{
		ID:        lesson,
		Tag:       tag,
		Kind:      kind,
		Lesson:    lesson,
		CreatedAt: time.Now(),
	}
}

func TestRecordStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, s.Append(ctx, rec("string-processing", "always check empty input", store.KindLesson)))
	require.NoError(t, s.Append(ctx, rec("string-processing", "this approach worked", store.KindSuccess)))

	// Reopen the same file.
	reopened, err := NewRecordStore(path)
	require.NoError(t, err)

	all, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "always check empty input", all[0].Lesson)
	assert.Equal(t, store.KindSuccess, all[1].Kind)
}

func TestRecordStore_ListByTag(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	require.NoError(t, s.Append(ctx, rec("a", "first", store.KindLesson)))
	require.NoError(t, s.Append(ctx, rec("b", "other", store.KindLesson)))
	require.NoError(t, s.Append(ctx, rec("a", "second", store.KindLesson)))

	got, err := s.List(ctx, "a", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Lesson)
	assert.Equal(t, "first", got[1].Lesson)

	got, err = s.List(ctx, "a", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Lesson)
}

func TestRecordStore_MissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	s, err := NewRecordStore(path)
	require.NoError(t, err)

	all, err := s.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRecordStore_CorruptFileErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, err := NewRecordStore(path)
	assert.Error(t, err)
}

func TestRecordStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Append(ctx, rec("concurrent", fmt.Sprintf("lesson-%d", i), store.KindLesson))
		}(i)
	}
	wg.Wait()

	all, err := s.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)

	// The file on disk agrees with memory.
	reopened, err := NewRecordStore(path)
	require.NoError(t, err)
	all, err = reopened.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, n)
}

func TestRecordStore_Clear(t *testing.T) {
	ctx := context.Background()
	s, path := newTestStore(t)

	require.NoError(t, s.Append(ctx, rec("t", "x", store.KindLesson)))
	require.NoError(t, s.Clear(ctx))

	reopened, err := NewRecordStore(path)
	require.NoError(t, err)
	all, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
