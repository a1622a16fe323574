package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// GenerateRequest carries everything a generator may condition on.
type GenerateRequest struct {
	Task Task

	// Lessons are episodic memory entries for the task's tag, most recent first.
	Lessons []string

	// PriorDraft is the previous attempt's draft, empty on the first attempt.
	PriorDraft string

	// Feedback is the validator diagnostic for the prior draft.
	Feedback string
}

// Generator produces a draft solution for a task.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerateRequest) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}

// BuildPrompt assembles the generation prompt. Section order is fixed:
// task, then lessons, then prior draft, then feedback. Identical requests
// always produce identical prompts.
func BuildPrompt(req GenerateRequest) string {
	var sb strings.Builder

	sb.WriteString("Task:\n")
	sb.WriteString(req.Task.Description)
	sb.WriteString("\n")

	if len(req.Lessons) > 0 {
		sb.WriteString("\nLessons from similar past tasks:\n")
		for _, lesson := range req.Lessons {
			fmt.Fprintf(&sb, "- %s\n", lesson)
		}
	}

	if req.PriorDraft != "" {
		sb.WriteString("\nYour previous attempt:\n")
		sb.WriteString(req.PriorDraft)
		sb.WriteString("\n")
	}

	if req.Feedback != "" {
		sb.WriteString("\nFeedback on the previous attempt:\n")
		sb.WriteString(req.Feedback)
		sb.WriteString("\n\nProduce a corrected solution that addresses the feedback.\n")
	}

	return sb.String()
}

const defaultGeneratorSystemMessage = "You are an expert problem solver. " +
	"Produce only the solution, with no commentary or markdown fences."

// LLMGenerator generates drafts with a language model.
type LLMGenerator struct {
	model         llms.Model
	systemMessage string
}

// NewLLMGenerator creates a generator backed by model.
func NewLLMGenerator(model llms.Model) *LLMGenerator {
	return &LLMGenerator{
		model:         model,
		systemMessage: defaultGeneratorSystemMessage,
	}
}

// SetSystemMessage overrides the generator's system message.
func (g *LLMGenerator) SetSystemMessage(msg string) {
	if msg != "" {
		g.systemMessage = msg
	}
}

// Generate builds the prompt for req and calls the model.
func (g *LLMGenerator) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(g.systemMessage)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(BuildPrompt(req))},
		},
	}

	resp, err := g.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate draft: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
