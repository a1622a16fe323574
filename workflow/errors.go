package workflow

import "errors"

var (
	// ErrNoGenerator is returned when the controller is built without a generator.
	ErrNoGenerator = errors.New("workflow: generator is required")

	// ErrNoValidator is returned when the controller is built without a validator.
	ErrNoValidator = errors.New("workflow: validator is required")

	// ErrInvalidMaxAttempts is returned when MaxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("workflow: max attempts must be positive")

	// ErrMissingTaskSpec is returned when a task arrives underspecified, such
	// as with an empty description or without the test cases its validator
	// needs. The run fails before any attempt is made.
	ErrMissingTaskSpec = errors.New("workflow: task spec is incomplete")
)
