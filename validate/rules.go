package validate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/smallnest/reflective/workflow"
)

// Rule checks one property of a draft. A non-nil error fails the draft with
// the error text as diagnostic.
type Rule struct {
	Name  string
	Check func(draft string) error
}

// RuleValidator applies a fixed list of rules. All rules are evaluated so
// the diagnostic reports every violation at once.
type RuleValidator struct {
	rules []Rule
}

// NewRuleValidator creates a validator from rules.
func NewRuleValidator(rules ...Rule) *RuleValidator {
	return &RuleValidator{rules: rules}
}

// Validate applies every rule to the draft.
func (v *RuleValidator) Validate(ctx context.Context, task workflow.Task, draft string) (*workflow.Result, error) {
	var violations []string
	for _, rule := range v.rules {
		if err := rule.Check(draft); err != nil {
			violations = append(violations, fmt.Sprintf("%s: %v", rule.Name, err))
		}
	}
	if len(violations) > 0 {
		return &workflow.Result{
			Passed:     false,
			Diagnostic: strings.Join(violations, "\n"),
		}, nil
	}
	return &workflow.Result{Passed: true}, nil
}

// Format names an output shape a FormatValidator accepts.
type Format string

const (
	FormatJSON   Format = "json"
	FormatList   Format = "list"
	FormatNumber Format = "number"
	FormatText   Format = "text"
)

// NewFormatValidator creates a rule validator that checks the draft parses
// as the given format. FormatList expects one "- " bullet per line,
// FormatText only requires non-empty content.
func NewFormatValidator(format Format) *RuleValidator {
	return NewRuleValidator(Rule{
		Name: string(format) + " format",
		Check: func(draft string) error {
			return checkFormat(format, draft)
		},
	})
}

func checkFormat(format Format, draft string) error {
	trimmed := strings.TrimSpace(draft)
	if trimmed == "" {
		return fmt.Errorf("output is empty")
	}

	switch format {
	case FormatJSON:
		if !json.Valid([]byte(trimmed)) {
			return fmt.Errorf("output is not valid JSON")
		}
	case FormatList:
		for i, line := range strings.Split(trimmed, "\n") {
			if !strings.HasPrefix(strings.TrimSpace(line), "- ") {
				return fmt.Errorf("line %d is not a \"- \" bullet", i+1)
			}
		}
	case FormatNumber:
		if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
			return fmt.Errorf("output is not a number")
		}
	case FormatText:
		// Non-empty is all that is required.
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}
