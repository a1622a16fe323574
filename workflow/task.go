package workflow

// Task is one unit of work submitted to the controller.
type Task struct {
	// ID identifies the task. Optional; the controller assigns one when empty.
	ID string `json:"id"`

	// Tag is the task category, used as the episodic memory retrieval key.
	Tag string `json:"tag"`

	// Description is the natural-language statement of what to produce.
	Description string `json:"description"`

	// Tests are optional executable test cases for validators that run code.
	Tests []TestCase `json:"tests,omitempty"`
}

// TestCase is one input/expected pair to check a code draft against.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}
