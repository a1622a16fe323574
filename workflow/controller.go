package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smallnest/reflective/log"
	"github.com/smallnest/reflective/memory"
)

const defaultLessonLimit = 5

// ControllerConfig configures a Controller.
type ControllerConfig struct {
	// Generator produces drafts. Required.
	Generator Generator

	// Validator judges drafts. Required.
	Validator Validator

	// Memory is the episodic memory. Optional; without it the controller
	// retrieves no lessons and records no outcomes.
	Memory Memory

	// Reflector distills a lesson on terminal failure. Optional; without it
	// the last validator diagnostic is recorded as the lesson.
	Reflector Reflector

	// MaxAttempts bounds the generate-validate rounds per task. Must be
	// positive.
	MaxAttempts int

	// LessonLimit caps how many lessons seed the prompt. Defaults to 5.
	LessonLimit int

	// StepTimeout bounds each generate, validate and reflect call. Zero
	// means no per-step bound beyond the run context.
	StepTimeout time.Duration

	// Logger overrides the package default logger.
	Logger log.Logger
}

// Controller drives a task through the retrieve-generate-validate-record
// loop. It is a plain state machine: each Run walks the phases explicitly
// and never exceeds MaxAttempts rounds.
type Controller struct {
	cfg    ControllerConfig
	logger log.Logger
}

// NewController validates cfg and creates a controller.
func NewController(cfg ControllerConfig) (*Controller, error) {
	if cfg.Generator == nil {
		return nil, ErrNoGenerator
	}
	if cfg.Validator == nil {
		return nil, ErrNoValidator
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMaxAttempts, cfg.MaxAttempts)
	}
	if cfg.LessonLimit <= 0 {
		cfg.LessonLimit = defaultLessonLimit
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	return &Controller{cfg: cfg, logger: logger}, nil
}

// checkTask rejects tasks the loop could only burn attempts on.
func (c *Controller) checkTask(task Task) error {
	if strings.TrimSpace(task.Description) == "" {
		return fmt.Errorf("%w: description is empty", ErrMissingTaskSpec)
	}
	if tc, ok := c.cfg.Validator.(TaskChecker); ok {
		if err := tc.CheckTask(task); err != nil {
			return fmt.Errorf("%w: %v", ErrMissingTaskSpec, err)
		}
	}
	return nil
}

func (c *Controller) stepContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.StepTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.StepTimeout)
	}
	return context.WithCancel(ctx)
}

// Run executes one task to a terminal outcome. An underspecified task is a
// configuration error: Run fails before the loop starts and no attempt is
// made. Once the loop starts the returned outcome is always non-nil; a
// non-nil error alongside it means the terminal memory write failed.
func (c *Controller) Run(ctx context.Context, task Task) (*Outcome, error) {
	if err := c.checkTask(task); err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	state := &State{Task: task, Phase: PhaseRetrieve}
	outcome := &Outcome{Task: task}

	c.logger.Info("task %s: starting (tag=%q, max_attempts=%d)", task.ID, task.Tag, c.cfg.MaxAttempts)

	for state.Phase != PhaseDone {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		switch state.Phase {
		case PhaseRetrieve:
			c.retrieve(ctx, state)
			outcome.RetrievedLessons = state.Lessons
			state.Phase = PhaseGenerate

		case PhaseGenerate:
			c.generate(ctx, state)
			if lastAttempt(state).Diagnostic != "" {
				// Generation failed; the round is consumed without validation.
				state.Phase = c.nextAfterFailure(state)
			} else {
				state.Phase = PhaseValidate
			}

		case PhaseValidate:
			c.validate(ctx, state)
			if lastAttempt(state).Passed {
				state.Phase = PhaseRecord
			} else {
				state.Phase = c.nextAfterFailure(state)
			}

		case PhaseRecord:
			err := c.record(ctx, state, outcome)
			state.Phase = PhaseDone
			if err != nil {
				c.finish(state, outcome)
				return outcome, err
			}

		default:
			return outcome, fmt.Errorf("workflow: unknown phase %q", state.Phase)
		}
	}

	c.finish(state, outcome)
	return outcome, nil
}

func (c *Controller) finish(state *State, outcome *Outcome) {
	outcome.Attempts = state.Attempts
	if att := lastAttempt(state); att != nil {
		outcome.Passed = att.Passed
	}
	outcome.Final = state.Draft
	c.logger.Info("task %s: finished (passed=%v, attempts=%d)", state.Task.ID, outcome.Passed, len(state.Attempts))
}

// nextAfterFailure decides whether a failed round retries or terminates.
func (c *Controller) nextAfterFailure(state *State) Phase {
	if len(state.Attempts) < c.cfg.MaxAttempts {
		return PhaseGenerate
	}
	return PhaseRecord
}

func (c *Controller) retrieve(ctx context.Context, state *State) {
	if c.cfg.Memory == nil {
		return
	}

	lessons, err := c.cfg.Memory.Lessons(ctx, state.Task.Tag, c.cfg.LessonLimit)
	if err != nil {
		// Degrade to a memoryless run rather than failing the task.
		c.logger.Warn("task %s: lesson retrieval failed, continuing without memory: %v", state.Task.ID, err)
		return
	}

	state.Lessons = lessons
	if len(lessons) > 0 {
		c.logger.Debug("task %s: retrieved %d lessons for tag %q", state.Task.ID, len(lessons), state.Task.Tag)
	}
}

func (c *Controller) generate(ctx context.Context, state *State) {
	stepCtx, cancel := c.stepContext(ctx)
	defer cancel()

	number := len(state.Attempts) + 1
	start := time.Now()

	draft, err := c.cfg.Generator.Generate(stepCtx, GenerateRequest{
		Task:       state.Task,
		Lessons:    state.Lessons,
		PriorDraft: state.Draft,
		Feedback:   state.Feedback,
	})
	if err != nil {
		// A generation error consumes the round but never aborts the run.
		c.logger.Warn("task %s: attempt %d generation failed: %v", state.Task.ID, number, err)
		diag := fmt.Sprintf("generation error: %v", err)
		state.Attempts = append(state.Attempts, Attempt{
			Number:     number,
			Diagnostic: diag,
			Duration:   time.Since(start),
		})
		state.Feedback = diag
		return
	}

	state.Draft = draft
	state.Attempts = append(state.Attempts, Attempt{
		Number:   number,
		Draft:    draft,
		Duration: time.Since(start),
	})
	c.logger.Debug("task %s: attempt %d generated %d chars", state.Task.ID, number, len(draft))
}

func (c *Controller) validate(ctx context.Context, state *State) {
	stepCtx, cancel := c.stepContext(ctx)
	defer cancel()

	att := lastAttempt(state)
	start := time.Now()

	result, err := c.cfg.Validator.Validate(stepCtx, state.Task, state.Draft)
	att.Duration += time.Since(start)
	if err != nil {
		// Validator crashes and timeouts count as failed checks.
		c.logger.Warn("task %s: attempt %d validator error: %v", state.Task.ID, att.Number, err)
		att.Diagnostic = fmt.Sprintf("validator error: %v", err)
		state.Feedback = att.Diagnostic
		return
	}

	if result.Passed {
		att.Passed = true
		c.logger.Info("task %s: attempt %d passed", state.Task.ID, att.Number)
		return
	}

	att.Diagnostic = result.Diagnostic
	state.Feedback = result.Diagnostic
	c.logger.Info("task %s: attempt %d failed: %s", state.Task.ID, att.Number, result.Diagnostic)
}

func (c *Controller) record(ctx context.Context, state *State, outcome *Outcome) error {
	if c.cfg.Memory == nil {
		return nil
	}

	att := lastAttempt(state)
	entry := memory.Entry{
		Tag:        state.Task.Tag,
		Task:       state.Task.Description,
		Draft:      state.Draft,
		Diagnostic: att.Diagnostic,
	}

	if att.Passed {
		entry.Lesson = fmt.Sprintf("A previously validated approach:\n%s", state.Draft)
		if err := c.cfg.Memory.RecordSuccess(ctx, entry); err != nil {
			return fmt.Errorf("failed to record success: %w", err)
		}
		return nil
	}

	entry.Lesson = c.distillLesson(ctx, state)
	outcome.Lesson = entry.Lesson
	if err := c.cfg.Memory.RecordLesson(ctx, entry); err != nil {
		return fmt.Errorf("failed to record lesson: %w", err)
	}
	return nil
}

// distillLesson asks the reflector for a takeaway and falls back to the
// last diagnostic when no reflector is configured or reflection fails.
func (c *Controller) distillLesson(ctx context.Context, state *State) string {
	fallback := lastAttempt(state).Diagnostic
	if fallback == "" {
		fallback = "task failed with no diagnostic"
	}

	if c.cfg.Reflector == nil {
		return fallback
	}

	stepCtx, cancel := c.stepContext(ctx)
	defer cancel()

	lesson, err := c.cfg.Reflector.Reflect(stepCtx, ReflectRequest{
		Task:     state.Task,
		Attempts: state.Attempts,
	})
	if err != nil || lesson == "" {
		c.logger.Warn("task %s: reflection failed, recording diagnostic instead: %v", state.Task.ID, err)
		return fallback
	}
	return lesson
}

func lastAttempt(state *State) *Attempt {
	if len(state.Attempts) == 0 {
		return nil
	}
	return &state.Attempts[len(state.Attempts)-1]
}
