package prebuilt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/reflective/log"
	"github.com/smallnest/reflective/memory"
	"github.com/smallnest/reflective/store"
	memstore "github.com/smallnest/reflective/store/memory"
	"github.com/smallnest/reflective/validate"
	"github.com/smallnest/reflective/workflow"
)

// ReflexionAgentConfig configures the reflexion agent
type ReflexionAgentConfig struct {
	// Model is the LLM used for generation
	Model llms.Model

	// ReflectionModel is an optional separate model for distilling lessons
	// If nil, uses the same model as generation
	ReflectionModel llms.Model

	// Validator judges each draft
	// If nil, uses a CodeValidator running drafts under python3
	Validator workflow.Validator

	// Store persists episodic memory across runs
	// If nil, uses an in-process store
	Store store.RecordStore

	// MaxAttempts is the maximum number of generate-validate rounds per task
	MaxAttempts int

	// LessonLimit caps how many past lessons seed the prompt
	LessonLimit int

	// StepTimeout bounds each generation, validation and reflection call
	StepTimeout time.Duration

	// SystemMessage is the system message for the generation step
	SystemMessage string

	// Logger overrides the package default logger
	Logger log.Logger
}

// ReflexionAgent solves tasks in a bounded retry loop and carries lessons
// between tasks through episodic memory.
//
// The Reflexion pattern involves:
// 1. Retrieve: Load lessons from past tasks with the same tag
// 2. Generate: Create a solution conditioned on lessons and prior feedback
// 3. Validate: Check the solution with an external validator
// 4. Repeat until the solution passes or attempts run out
// 5. Record: Persist a lesson on failure, the working approach on success
type ReflexionAgent struct {
	controller *workflow.Controller
	memory     *memory.EpisodicMemory
}

// NewReflexionAgent creates a new Reflexion agent
func NewReflexionAgent(config ReflexionAgentConfig) (*ReflexionAgent, error) {
	if config.Model == nil {
		return nil, fmt.Errorf("model is required")
	}

	if config.MaxAttempts == 0 {
		config.MaxAttempts = 3 // Default to 3 attempts
	}

	reflectionModel := config.ReflectionModel
	if reflectionModel == nil {
		reflectionModel = config.Model
	}

	validator := config.Validator
	if validator == nil {
		validator = validate.NewCodeValidator()
	}

	st := config.Store
	if st == nil {
		st = memstore.NewRecordStore()
	}
	mem := memory.NewEpisodicMemory(st)
	if config.Logger != nil {
		mem.SetLogger(config.Logger)
	}

	generator := workflow.NewLLMGenerator(config.Model)
	generator.SetSystemMessage(config.SystemMessage)

	controller, err := workflow.NewController(workflow.ControllerConfig{
		Generator:   generator,
		Validator:   validator,
		Memory:      mem,
		Reflector:   workflow.NewLLMReflector(reflectionModel),
		MaxAttempts: config.MaxAttempts,
		LessonLimit: config.LessonLimit,
		StepTimeout: config.StepTimeout,
		Logger:      config.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &ReflexionAgent{controller: controller, memory: mem}, nil
}

// Run executes one task to a terminal outcome.
func (a *ReflexionAgent) Run(ctx context.Context, task workflow.Task) (*workflow.Outcome, error) {
	return a.controller.Run(ctx, task)
}

// Memory exposes the agent's episodic memory for inspection.
func (a *ReflexionAgent) Memory() *memory.EpisodicMemory {
	return a.memory
}

// TestsFor returns demo test cases matched to a task description by
// keyword. Real deployments supply tests with the task instead.
func TestsFor(task string) []workflow.TestCase {
	taskLower := strings.ToLower(task)

	switch {
	case strings.Contains(taskLower, "reverse"):
		return []workflow.TestCase{
			{Input: "hello", Expected: "olleh"},
			{Input: "", Expected: ""},
			{Input: "a", Expected: "a"},
			{Input: "racecar", Expected: "racecar"},
		}
	case strings.Contains(taskLower, "palindrome"):
		return []workflow.TestCase{
			{Input: "racecar", Expected: "True"},
			{Input: "hello", Expected: "False"},
			{Input: "", Expected: "True"},
			{Input: "a", Expected: "True"},
		}
	case strings.Contains(taskLower, "vowel"):
		return []workflow.TestCase{
			{Input: "hello", Expected: "2"},
			{Input: "", Expected: "0"},
			{Input: "aeiou", Expected: "5"},
			{Input: "xyz", Expected: "0"},
		}
	default:
		return []workflow.TestCase{
			{Input: "test", Expected: "test"},
		}
	}
}
