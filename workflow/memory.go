package workflow

import (
	"context"

	"github.com/smallnest/reflective/memory"
)

// Memory is the episodic memory surface the controller needs. It is
// satisfied by *memory.EpisodicMemory.
type Memory interface {
	// Lessons returns up to limit lessons for tag, most recent first.
	Lessons(ctx context.Context, tag string, limit int) ([]string, error)

	// RecordLesson persists a lesson distilled from a terminal failure.
	RecordLesson(ctx context.Context, e memory.Entry) error

	// RecordSuccess persists a pattern captured from a terminal success.
	RecordSuccess(ctx context.Context, e memory.Entry) error
}
