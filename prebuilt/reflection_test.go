package prebuilt

import (
	"context"
	"testing"
)

func TestReflectionAgent_RequiresModel(t *testing.T) {
	_, err := NewReflectionAgent(ReflectionAgentConfig{})
	if err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestReflectionAgent_AcceptsSatisfactoryDraft(t *testing.T) {
	// Generation and critique share the model: draft, then critique.
	model := &MockModel{responses: []string{
		"a fine essay",
		"Thorough and accurate, no major issues.",
	}}

	agent, err := NewReflectionAgent(ReflectionAgentConfig{
		Model:         model,
		MaxIterations: 3,
	})
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	final, outcome, err := agent.Run(context.Background(), "write an essay")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if final != "a fine essay" {
		t.Errorf("unexpected final response: %q", final)
	}
	if !outcome.Passed {
		t.Error("expected outcome to pass")
	}
	if len(outcome.Attempts) != 1 {
		t.Errorf("expected 1 attempt, got %d", len(outcome.Attempts))
	}
}

func TestReflectionAgent_RevisesOnCritique(t *testing.T) {
	model := &MockModel{responses: []string{
		"first draft",
		"The introduction is missing and the argument is incomplete.",
		"second draft",
		"Comprehensive and well done, no major issues.",
	}}

	agent, err := NewReflectionAgent(ReflectionAgentConfig{
		Model:         model,
		MaxIterations: 3,
	})
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	final, outcome, err := agent.Run(context.Background(), "write an essay")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if final != "second draft" {
		t.Errorf("unexpected final response: %q", final)
	}
	if len(outcome.Attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(outcome.Attempts))
	}
	if outcome.Attempts[0].Diagnostic == "" {
		t.Error("expected the first attempt to carry the critique")
	}
}

func TestReflectionAgent_StopsAtMaxIterations(t *testing.T) {
	model := &MockModel{responses: []string{
		"draft 1", "This is incomplete.",
		"draft 2", "Still missing key points.",
	}}

	agent, err := NewReflectionAgent(ReflectionAgentConfig{
		Model:         model,
		MaxIterations: 2,
	})
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	final, outcome, err := agent.Run(context.Background(), "write an essay")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if outcome.Passed {
		t.Error("expected outcome to fail")
	}
	if len(outcome.Attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(outcome.Attempts))
	}
	// The last draft is still returned.
	if final != "draft 2" {
		t.Errorf("unexpected final response: %q", final)
	}
}
