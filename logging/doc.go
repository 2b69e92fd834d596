// Package logging provides the minimal logging interface jogcore components
// depend on.
//
// The Logger interface defines the three levels the engine uses (Debug, Warn,
// Error). This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// All logging inside the engine is best-effort: implementations must never
// panic, and no code path depends on a log call succeeding.
package logging
