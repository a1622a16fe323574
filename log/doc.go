// Package log provides a simple, leveled logging interface for the
// reflective workflow packages.
//
// The package supports five log levels, in order of increasing severity:
//
//   - LevelDebug: Detailed debugging information for development
//   - LevelInfo: General informational messages about normal operation
//   - LevelWarn: Warning messages for potentially problematic situations
//   - LevelError: Error messages for failures that need attention
//   - LevelNone: Disables all logging output
//
// # Example Usage
//
//	// Create a stderr logger with INFO level
//	logger := log.NewDefaultLogger(nil, log.LevelInfo)
//
//	logger.Info("starting task %q", task.Description)
//	logger.Warn("lesson retrieval degraded: %v", err)
//
// # golog Integration
//
// For users who prefer the `github.com/kataras/golog` library, a minimal
// wrapper is provided:
//
//	glogger := golog.New()
//	logger := log.NewGologLogger(glogger)
//	logger.SetLevel(log.LevelDebug)
//
// The DefaultLogger implementation is safe for concurrent use; the underlying
// log.Logger from Go's standard library handles synchronization internally.
package log
