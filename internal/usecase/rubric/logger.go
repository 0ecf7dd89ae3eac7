package rubric

import "context"

// Logger provides structured logging for the suite use case. It lets the
// orchestrator surface warnings and run summaries without binding to a
// concrete logging implementation.
type Logger interface {
	// LogWarning logs a warning message with structured fields.
	LogWarning(ctx context.Context, message string, fields map[string]interface{})

	// LogInfo logs an informational message with structured fields.
	LogInfo(ctx context.Context, message string, fields map[string]interface{})
}
