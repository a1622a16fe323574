package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/smallnest/reflective/workflow"
)

// harnessResult is the JSON the execution harness prints on stdout.
type harnessResult struct {
	Error   string `json:"error,omitempty"`
	Results []struct {
		Input    string `json:"input"`
		Expected string `json:"expected"`
		Actual   string `json:"actual"`
		Passed   bool   `json:"passed"`
	} `json:"results"`
}

// CodeValidator checks a code draft by executing it against the task's test
// cases in a subprocess. The draft must define a function named solve; the
// harness calls solve(input) for each test case and compares the stringified
// result to the expected output.
type CodeValidator struct {
	interpreter  []string
	timeout      time.Duration
	buildHarness func(draft string, tests []workflow.TestCase) (string, error)
}

// CodeValidatorOption customizes a CodeValidator.
type CodeValidatorOption func(*CodeValidator)

// WithInterpreter replaces the subprocess command, e.g. {"python3", "-c"}.
// The harness source is appended as the final argument.
func WithInterpreter(command ...string) CodeValidatorOption {
	return func(v *CodeValidator) {
		if len(command) > 0 {
			v.interpreter = command
		}
	}
}

// WithExecTimeout bounds each harness run.
func WithExecTimeout(d time.Duration) CodeValidatorOption {
	return func(v *CodeValidator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithHarnessBuilder replaces the harness source generator.
func WithHarnessBuilder(build func(draft string, tests []workflow.TestCase) (string, error)) CodeValidatorOption {
	return func(v *CodeValidator) {
		if build != nil {
			v.buildHarness = build
		}
	}
}

// NewCodeValidator creates a validator that runs drafts under python3 with a
// 30 second timeout by default.
func NewCodeValidator(opts ...CodeValidatorOption) *CodeValidator {
	v := &CodeValidator{
		interpreter:  []string{"python3", "-c"},
		timeout:      30 * time.Second,
		buildHarness: buildPythonHarness,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// CheckTask rejects tasks without test cases. The controller calls it before
// the first attempt so such tasks fail fast instead of burning the attempt
// budget on an unanswerable check.
func (v *CodeValidator) CheckTask(task workflow.Task) error {
	if len(task.Tests) == 0 {
		return fmt.Errorf("task %q has no test cases", task.ID)
	}
	return nil
}

// Validate runs the draft against task.Tests. A draft that raises, times
// out, or produces wrong outputs yields a failed result with a diagnostic
// naming each failing case.
func (v *CodeValidator) Validate(ctx context.Context, task workflow.Task, draft string) (*workflow.Result, error) {
	if err := v.CheckTask(task); err != nil {
		return nil, err
	}

	harness, err := v.buildHarness(draft, task.Tests)
	if err != nil {
		return nil, fmt.Errorf("failed to build harness: %w", err)
	}

	execCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	args := append(v.interpreter[1:], harness)
	out, err := exec.CommandContext(execCtx, v.interpreter[0], args...).Output()
	if execCtx.Err() == context.DeadlineExceeded {
		return &workflow.Result{
			Passed:     false,
			Diagnostic: fmt.Sprintf("execution timed out after %s", v.timeout),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("harness execution failed: %w", err)
	}

	var parsed harnessResult
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse harness output: %w", err)
	}

	if parsed.Error != "" {
		return &workflow.Result{Passed: false, Diagnostic: parsed.Error}, nil
	}

	var failures []string
	for _, r := range parsed.Results {
		if !r.Passed {
			failures = append(failures, fmt.Sprintf("input %q: expected %q, got %q", r.Input, r.Expected, r.Actual))
		}
	}
	if len(failures) > 0 {
		return &workflow.Result{
			Passed:     false,
			Diagnostic: fmt.Sprintf("%d of %d tests failed:\n%s", len(failures), len(parsed.Results), strings.Join(failures, "\n")),
		}, nil
	}

	return &workflow.Result{Passed: true}, nil
}

// buildPythonHarness embeds the draft and tests as JSON literals so neither
// needs shell or Python quoting.
func buildPythonHarness(draft string, tests []workflow.TestCase) (string, error) {
	// JSON string literals are valid Python string literals as well.
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return "", err
	}
	testsJSON, err := json.Marshal(tests)
	if err != nil {
		return "", err
	}
	testsLiteral, err := json.Marshal(string(testsJSON))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`import json
draft = %s
tests = json.loads(%s)
ns = {}
try:
    exec(draft, ns)
except Exception as e:
    print(json.dumps({"error": "draft failed to load: %%s" %% e}))
    raise SystemExit
fn = ns.get("solve")
if not callable(fn):
    print(json.dumps({"error": "draft does not define a callable solve(input)"}))
    raise SystemExit
results = []
for t in tests:
    try:
        actual = str(fn(t["input"]))
    except Exception as e:
        actual = "error: %%s" %% e
    results.append({
        "input": t["input"],
        "expected": t["expected"],
        "actual": actual,
        "passed": actual == t["expected"],
    })
print(json.dumps({"results": results}))
`, string(draftJSON), string(testsLiteral)), nil
}
