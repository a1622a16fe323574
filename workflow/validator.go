package workflow

import "context"

// Result is a validator's verdict on a draft.
type Result struct {
	// Passed reports whether the draft is acceptable.
	Passed bool `json:"passed"`

	// Diagnostic explains the failure. Empty on pass.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// Validator judges a draft against a task. A crashed or timed-out check is
// reported as a failed Result by the controller, not as a fatal error.
type Validator interface {
	Validate(ctx context.Context, task Task, draft string) (*Result, error)
}

// TaskChecker is an optional Validator capability. Validators that depend on
// parts of the task spec, such as test cases, implement it so the controller
// can reject an underspecified task before any attempt is made.
type TaskChecker interface {
	CheckTask(task Task) error
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(ctx context.Context, task Task, draft string) (*Result, error)

func (f ValidatorFunc) Validate(ctx context.Context, task Task, draft string) (*Result, error) {
	return f(ctx, task, draft)
}
