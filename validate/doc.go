// Package validate provides the draft validators used by the workflow
// controller: subprocess test execution for code tasks, LLM critique for
// open-ended tasks, and rule or format checks for structured output.
package validate
