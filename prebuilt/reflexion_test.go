package prebuilt

import (
	"context"
	"strings"
	"testing"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/reflective/workflow"
)

// MockModel is a simple mock for llms.Model
type MockModel struct {
	responses []string
	callCount int
}

func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	resp := "default response"
	if m.callCount < len(m.responses) {
		resp = m.responses[m.callCount]
	}
	m.callCount++

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{Content: resp},
		},
	}, nil
}

func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

// containsValidator passes drafts containing want.
func containsValidator(want string) workflow.Validator {
	return workflow.ValidatorFunc(func(ctx context.Context, task workflow.Task, draft string) (*workflow.Result, error) {
		if strings.Contains(draft, want) {
			return &workflow.Result{Passed: true}, nil
		}
		return &workflow.Result{Passed: false, Diagnostic: "missing " + want}, nil
	})
}

func TestReflexionAgent_RequiresModel(t *testing.T) {
	_, err := NewReflexionAgent(ReflexionAgentConfig{})
	if err == nil {
		t.Fatal("expected error for missing model")
	}
}

func TestReflexionAgent_PassesAfterRetry(t *testing.T) {
	model := &MockModel{responses: []string{"wrong answer", "the right answer"}}

	agent, err := NewReflexionAgent(ReflexionAgentConfig{
		Model:       model,
		Validator:   containsValidator("right"),
		MaxAttempts: 3,
	})
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	outcome, err := agent.Run(context.Background(), workflow.Task{
		Tag:         "demo",
		Description: "answer correctly",
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !outcome.Passed {
		t.Error("expected outcome to pass")
	}
	if len(outcome.Attempts) != 2 {
		t.Errorf("expected 2 attempts, got %d", len(outcome.Attempts))
	}
	if outcome.Final != "the right answer" {
		t.Errorf("unexpected final draft: %q", outcome.Final)
	}

	stats, err := agent.Memory().Stats(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.Successes != 1 || stats.Failures != 0 {
		t.Errorf("expected 1 success and 0 failures, got %+v", stats)
	}
}

func TestReflexionAgent_RecordsLessonOnFailure(t *testing.T) {
	// Generation responses never satisfy the validator; the third response
	// is the distilled lesson from the reflector.
	model := &MockModel{responses: []string{"bad one", "bad two", "check the requirements first"}}

	agent, err := NewReflexionAgent(ReflexionAgentConfig{
		Model:       model,
		Validator:   containsValidator("right"),
		MaxAttempts: 2,
	})
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	ctx := context.Background()
	outcome, err := agent.Run(ctx, workflow.Task{Tag: "demo", Description: "impossible"})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if outcome.Passed {
		t.Error("expected outcome to fail")
	}
	if outcome.Lesson != "check the requirements first" {
		t.Errorf("unexpected lesson: %q", outcome.Lesson)
	}

	lessons, err := agent.Memory().Lessons(ctx, "demo", 0)
	if err != nil {
		t.Fatalf("lessons failed: %v", err)
	}
	if len(lessons) != 1 || lessons[0] != "check the requirements first" {
		t.Errorf("unexpected lessons: %v", lessons)
	}
}

func TestReflexionAgent_LessonsCarryAcrossTasks(t *testing.T) {
	model := &MockModel{responses: []string{"bad", "a distilled lesson", "right away"}}

	agent, err := NewReflexionAgent(ReflexionAgentConfig{
		Model:       model,
		Validator:   containsValidator("right"),
		MaxAttempts: 1,
	})
	if err != nil {
		t.Fatalf("failed to create agent: %v", err)
	}

	ctx := context.Background()
	if _, err := agent.Run(ctx, workflow.Task{Tag: "demo", Description: "first"}); err != nil {
		t.Fatalf("first run failed: %v", err)
	}

	outcome, err := agent.Run(ctx, workflow.Task{Tag: "demo", Description: "second"})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}
	if !outcome.Passed {
		t.Error("expected second run to pass")
	}
	if len(outcome.RetrievedLessons) != 1 {
		t.Errorf("expected the first run's lesson to seed the second, got %v", outcome.RetrievedLessons)
	}
}

func TestTestsFor(t *testing.T) {
	tests := []struct {
		task      string
		wantCases int
		wantFirst workflow.TestCase
	}{
		{"Write a function to reverse a string", 4, workflow.TestCase{Input: "hello", Expected: "olleh"}},
		{"Write a function to check if a string is a palindrome", 4, workflow.TestCase{Input: "racecar", Expected: "True"}},
		{"Count the vowels in a string", 4, workflow.TestCase{Input: "hello", Expected: "2"}},
		{"Something else entirely", 1, workflow.TestCase{Input: "test", Expected: "test"}},
	}

	for _, tt := range tests {
		cases := TestsFor(tt.task)
		if len(cases) != tt.wantCases {
			t.Errorf("TestsFor(%q): expected %d cases, got %d", tt.task, tt.wantCases, len(cases))
			continue
		}
		if cases[0] != tt.wantFirst {
			t.Errorf("TestsFor(%q): unexpected first case %+v", tt.task, cases[0])
		}
	}
}
