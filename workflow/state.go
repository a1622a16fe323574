package workflow

import "time"

// Phase is the controller's position in the retrieve-generate-validate loop.
type Phase string

const (
	PhaseRetrieve Phase = "retrieve"
	PhaseGenerate Phase = "generate"
	PhaseValidate Phase = "validate"
	PhaseRecord   Phase = "record"
	PhaseDone     Phase = "done"
)

// Attempt is one generate-validate round.
type Attempt struct {
	// Number is 1-based.
	Number int `json:"number"`

	// Draft is the generated solution, empty when generation failed.
	Draft string `json:"draft"`

	// Passed reports whether validation succeeded.
	Passed bool `json:"passed"`

	// Diagnostic carries the validator feedback or the generation error text.
	Diagnostic string `json:"diagnostic,omitempty"`

	Duration time.Duration `json:"duration"`
}

// State is the controller's working state for one task run.
type State struct {
	Task     Task
	Phase    Phase
	Lessons  []string
	Draft    string
	Feedback string
	Attempts []Attempt
}

// Outcome is the final result of a task run.
type Outcome struct {
	Task Task `json:"task"`

	// Passed reports whether any attempt validated successfully.
	Passed bool `json:"passed"`

	// Final is the draft from the passing attempt, or the last draft when
	// all attempts failed.
	Final string `json:"final"`

	Attempts []Attempt `json:"attempts"`

	// RetrievedLessons are the lessons that seeded the first prompt.
	RetrievedLessons []string `json:"retrieved_lessons,omitempty"`

	// Lesson is the takeaway recorded on terminal failure, empty otherwise.
	Lesson string `json:"lesson,omitempty"`
}

// LastAttempt returns the most recent attempt, or nil when none ran.
func (o *Outcome) LastAttempt() *Attempt {
	if len(o.Attempts) == 0 {
		return nil
	}
	return &o.Attempts[len(o.Attempts)-1]
}
