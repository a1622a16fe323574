package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// ReflectRequest carries the failed trajectory a reflector distills.
type ReflectRequest struct {
	Task     Task
	Attempts []Attempt
}

// Reflector turns a failed task run into a single transferable lesson for
// episodic memory.
type Reflector interface {
	Reflect(ctx context.Context, req ReflectRequest) (string, error)
}

const defaultReflectorSystemMessage = "You extract lessons from failed problem-solving attempts. " +
	"State one concrete, transferable takeaway in a single sentence. " +
	"Describe what to do differently, not what went wrong."

// LLMReflector distills lessons with a language model.
type LLMReflector struct {
	model         llms.Model
	systemMessage string
}

// NewLLMReflector creates a reflector backed by model.
func NewLLMReflector(model llms.Model) *LLMReflector {
	return &LLMReflector{
		model:         model,
		systemMessage: defaultReflectorSystemMessage,
	}
}

// Reflect summarizes the failed attempts into one lesson.
func (r *LLMReflector) Reflect(ctx context.Context, req ReflectRequest) (string, error) {
	var sb strings.Builder
	sb.WriteString("Task:\n")
	sb.WriteString(req.Task.Description)
	sb.WriteString("\n\nFailed attempts:\n")
	for _, att := range req.Attempts {
		fmt.Fprintf(&sb, "\nAttempt %d:\n%s\nDiagnostic: %s\n", att.Number, att.Draft, att.Diagnostic)
	}
	sb.WriteString("\nWhat is the one lesson to remember for similar tasks?\n")

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(r.systemMessage)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(sb.String())},
		},
	}

	resp, err := r.model.GenerateContent(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate reflection: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Content), nil
}
