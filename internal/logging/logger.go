// Package logging defines the minimal structured-logging interface the
// server components depend on. The concrete implementation wraps slog.
package logging

// Logger is a structured logger. The variadic args are interpreted as
// key-value pairs, e.g.:
//
//	log.Info("starting server", "addr", addr)
type Logger interface {
	// Debug logs a message useful only when diagnosing problems.
	Debug(msg string, args ...any)

	// Info logs an informational message.
	Info(msg string, args ...any)

	// Warn logs a warning for unusual but non-fatal conditions.
	Warn(msg string, args ...any)

	// Error logs a failure.
	Error(msg string, args ...any)

	// With returns a child logger that always includes the given key-value pairs.
	With(args ...any) Logger
}
