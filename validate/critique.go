package validate

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/reflective/workflow"
)

const defaultCritiquePrompt = `You are a demanding reviewer. Critique the response below against the request.
Point out everything missing, incorrect or unclear. If the response fully satisfies the request, say it is satisfactory and has no major issues.`

// CritiqueValidator judges a draft by asking a language model to critique it
// and scanning the critique for verdict keywords.
type CritiqueValidator struct {
	model  llms.Model
	prompt string
}

// NewCritiqueValidator creates a critique validator backed by model.
func NewCritiqueValidator(model llms.Model) *CritiqueValidator {
	return &CritiqueValidator{
		model:  model,
		prompt: defaultCritiquePrompt,
	}
}

// SetPrompt overrides the reviewer system message.
func (v *CritiqueValidator) SetPrompt(prompt string) {
	if prompt != "" {
		v.prompt = prompt
	}
}

// Validate asks the model for a critique. The critique text becomes the
// diagnostic when the verdict is negative.
func (v *CritiqueValidator) Validate(ctx context.Context, task workflow.Task, draft string) (*workflow.Result, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(v.prompt)},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(fmt.Sprintf("Request:\n%s\n\nResponse:\n%s\n\nProvide your critique.", task.Description, draft)),
			},
		},
	}

	resp, err := v.model.GenerateContent(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("failed to generate critique: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	critique := strings.TrimSpace(resp.Choices[0].Content)
	if Satisfactory(critique) {
		return &workflow.Result{Passed: true}, nil
	}
	return &workflow.Result{Passed: false, Diagnostic: critique}, nil
}

var satisfactoryKeywords = []string{
	"excellent",
	"satisfactory",
	"no major issues",
	"no significant issues",
	"well done",
	"comprehensive",
	"thorough",
	"accurate",
	"no improvements needed",
	"meets all requirements",
}

var issueKeywords = []string{
	"missing",
	"incomplete",
	"unclear",
	"should include",
	"could be improved",
	"lacks",
	"needs to",
	"issue",
	"problem",
	"incorrect",
	"inaccurate",
}

// Satisfactory reports whether a critique reads as approval. It counts
// positive and negative keywords, ignoring negative words that only appear
// inside a positive phrase ("issue" in "no major issues").
func Satisfactory(critique string) bool {
	lower := strings.ToLower(critique)

	satisfactoryCount := 0
	for _, keyword := range satisfactoryKeywords {
		if strings.Contains(lower, keyword) {
			satisfactoryCount++
		}
	}

	issueCount := 0
	for _, keyword := range issueKeywords {
		if !strings.Contains(lower, keyword) {
			continue
		}
		partOfPositive := false
		for _, sat := range satisfactoryKeywords {
			if strings.Contains(sat, keyword) && strings.Contains(lower, sat) {
				partOfPositive = true
				break
			}
		}
		if !partOfPositive {
			issueCount++
		}
	}

	return satisfactoryCount > 0 && issueCount == 0
}
