// Package logger provides structured logging functionality for the application.
//
// It configures log/slog with a JSON handler (text in development), carries
// request- and task-scoped loggers through context.Context, and offers a
// capture buffer for tests that assert on log output.
package logger
