package prebuilt

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/reflective/log"
	"github.com/smallnest/reflective/validate"
	"github.com/smallnest/reflective/workflow"
)

// ReflectionAgentConfig configures the reflection agent
type ReflectionAgentConfig struct {
	// Model is the LLM to use for both generation and critique
	Model llms.Model

	// CritiqueModel is an optional separate model for the critique step
	// If nil, uses the same model as generation
	CritiqueModel llms.Model

	// MaxIterations is the maximum number of generation-critique cycles
	MaxIterations int

	// SystemMessage is the system message for the generation step
	SystemMessage string

	// CritiquePrompt is the system message for the critique step
	CritiquePrompt string

	// StepTimeout bounds each generation and critique call
	StepTimeout time.Duration

	// Logger overrides the package default logger
	Logger log.Logger
}

// ReflectionAgent iteratively improves a response through self-critique.
// Unlike the reflexion agent it keeps no memory between requests; each run
// starts fresh.
//
// The Reflection pattern involves:
// 1. Generate: Create an initial response
// 2. Critique: Review the response and point out issues
// 3. Revise: Generate an improved version based on the critique
// 4. Repeat until satisfactory or max iterations reached
type ReflectionAgent struct {
	controller *workflow.Controller
}

// NewReflectionAgent creates a new Reflection agent
func NewReflectionAgent(config ReflectionAgentConfig) (*ReflectionAgent, error) {
	if config.Model == nil {
		return nil, fmt.Errorf("model is required")
	}

	if config.MaxIterations == 0 {
		config.MaxIterations = 3 // Default to 3 iterations
	}

	critiqueModel := config.CritiqueModel
	if critiqueModel == nil {
		critiqueModel = config.Model
	}

	validator := validate.NewCritiqueValidator(critiqueModel)
	validator.SetPrompt(config.CritiquePrompt)

	generator := workflow.NewLLMGenerator(config.Model)
	generator.SetSystemMessage(config.SystemMessage)

	controller, err := workflow.NewController(workflow.ControllerConfig{
		Generator:   generator,
		Validator:   validator,
		MaxAttempts: config.MaxIterations,
		StepTimeout: config.StepTimeout,
		Logger:      config.Logger,
	})
	if err != nil {
		return nil, err
	}

	return &ReflectionAgent{controller: controller}, nil
}

// Run generates a response for request, refining it until the critique is
// satisfied or iterations run out. The best draft is returned either way.
func (a *ReflectionAgent) Run(ctx context.Context, request string) (string, *workflow.Outcome, error) {
	outcome, err := a.controller.Run(ctx, workflow.Task{
		Tag:         "reflection",
		Description: request,
	})
	if err != nil {
		return "", outcome, err
	}
	return outcome.Final, outcome, nil
}
