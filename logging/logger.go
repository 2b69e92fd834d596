package logging

import "log/slog"

// Logger is the narrow logging surface the engine writes to. Only the three
// levels the coordinate paths actually use are exposed; anything speaking
// this interface can be plugged in, slog-backed or otherwise.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter satisfies Logger on top of a *slog.Logger.
type SlogAdapter struct {
	*slog.Logger
}

func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter wraps logger as a Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger returns a Logger backed by slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NoOpLogger drops everything. It is the fallback when no logger is
// configured and keeps hot paths free of nil checks.
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}

func (NoOpLogger) Warn(string, ...any) {}

func (NoOpLogger) Error(string, ...any) {}
