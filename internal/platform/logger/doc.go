// Package logger provides structured logging functionality for the application.
//
// It configures a log/slog JSON handler from server configuration and carries
// request-scoped loggers through context.Context so that every log line emitted
// while serving a request includes its trace ID.
package logger
