// Reflective - Self-Improving Agent Workflows in Go
//
// Reflective implements reflection and reflexion agent patterns: agents that
// validate their own output, retry with feedback, and carry lessons between
// tasks through a persistent episodic memory.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/reflective
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/reflective/prebuilt"
//		"github.com/smallnest/reflective/workflow"
//		"github.com/tmc/langchaingo/llms/openai"
//	)
//
//	func main() {
//		// Initialize LLM
//		llm, _ := openai.New()
//
//		// Create a reflexion agent with in-memory episodic storage
//		agent, _ := prebuilt.NewReflexionAgent(prebuilt.ReflexionAgentConfig{
//			Model:       llm,
//			MaxAttempts: 3,
//		})
//
//		// Run a coding task with executable test cases
//		task := workflow.Task{
//			Tag:         "string-processing",
//			Description: "Write a Python function solve(s) that reverses a string",
//		}
//		task.Tests = prebuilt.TestsFor(task.Description)
//
//		outcome, _ := agent.Run(context.Background(), task)
//		fmt.Println(outcome.Passed, outcome.Final)
//	}
//
// # Packages
//
//   - workflow: the bounded generate-validate-record controller
//   - memory: episodic memory and conversation buffers
//   - store: pluggable record stores (memory, file, sqlite, redis, postgres)
//   - validate: code execution, LLM critique and rule validators
//   - prebuilt: ready-made reflexion and reflection agents
//   - rag: retrieval-augmented generation pipeline and components
//   - tool: web search and page extraction tools
package reflective
