// Package workflow implements the bounded self-correction loop at the core
// of a reflexion-style agent.
//
// A Controller drives one Task through an explicit state machine:
//
//	retrieve -> generate -> validate -> (retry | record) -> done
//
// Lessons from past runs of tasks with the same tag seed the first prompt.
// Each failed validation feeds its diagnostic into the next generation. The
// loop is hard-bounded by MaxAttempts; on terminal failure a lesson is
// distilled and persisted, on terminal success the working approach is
// recorded instead.
package workflow
