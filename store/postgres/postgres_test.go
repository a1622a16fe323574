package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/smallnest/reflective/store"
)

func TestRecordStore_Append(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewRecordStoreWithPool(mock, "episodic_records")

	rec := &store.Record{
		ID:         "rec-1",
		Tag:        "string-processing",
		Kind:       store.KindLesson,
		Task:       "Reverse a string",
		Draft:      "def reverse(s): return s[::-1]",
		Diagnostic: "failed on empty string",
		Lesson:     "always check for empty input",
		CreatedAt:  time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO episodic_records")).
		WithArgs(
			rec.ID,
			rec.Tag,
			string(rec.Kind),
			rec.Task,
			rec.Draft,
			rec.Diagnostic,
			rec.Lesson,
			rec.CreatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = s.Append(context.Background(), rec)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewRecordStoreWithPool(mock, "episodic_records")

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "tag", "kind", "task", "draft", "diagnostic", "lesson", "created_at"}).
		AddRow("rec-2", "string-processing", "lesson", "task-b", "", "", "handle unicode", now).
		AddRow("rec-1", "string-processing", "lesson", "task-a", "", "", "check empty input", now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, tag, kind, task, draft, diagnostic, lesson, created_at FROM episodic_records WHERE tag = $1 ORDER BY seq DESC LIMIT $2")).
		WithArgs("string-processing", 5).
		WillReturnRows(rows)

	got, err := s.List(context.Background(), "string-processing", 5)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "handle unicode", got[0].Lesson)
	assert.Equal(t, store.KindLesson, got[0].Kind)
	assert.Equal(t, "check empty input", got[1].Lesson)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_ListNoLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewRecordStoreWithPool(mock, "episodic_records")

	rows := pgxmock.NewRows([]string{"id", "tag", "kind", "task", "draft", "diagnostic", "lesson", "created_at"})

	mock.ExpectQuery(regexp.QuoteMeta("WHERE tag = $1 ORDER BY seq DESC")).
		WithArgs("empty-tag").
		WillReturnRows(rows)

	got, err := s.List(context.Background(), "empty-tag", 0)
	assert.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_All(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewRecordStoreWithPool(mock, "episodic_records")

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "tag", "kind", "task", "draft", "diagnostic", "lesson", "created_at"}).
		AddRow("rec-1", "a", "lesson", "task-a", "", "", "first", now).
		AddRow("rec-2", "b", "success", "task-b", "", "", "second", now)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY seq ASC")).
		WillReturnRows(rows)

	got, err := s.All(context.Background())
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, store.KindSuccess, got[1].Kind)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_Clear(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewRecordStoreWithPool(mock, "episodic_records")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM episodic_records")).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err = s.Clear(context.Background())
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordStore_AppendError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	s := NewRecordStoreWithPool(mock, "episodic_records")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO episodic_records")).
		WillReturnError(errors.New("connection refused"))

	rec := &store.Record{ID: "rec-1", Tag: "t", Kind: store.KindLesson, Lesson: "x", CreatedAt: time.Now()}
	err = s.Append(context.Background(), rec)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to append record")
}
