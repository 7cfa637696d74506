package logger

import (
	"context"

	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across tripgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Identity and context
	FieldRequestID = "request_id"
	FieldProjectID = "project_id"

	// Components
	FieldComponent = "component"

	// Operations
	FieldOperation = "operation"
	FieldMethod    = "method"
	FieldPath      = "path"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount         = "count"
	FieldScenarioCount = "scenario_count"
	FieldTripletCount  = "triplet_count"

	// Status
	FieldStatus = "status"

	// Files and paths
	FieldFile = "file"
	FieldDir  = "dir"

	// Network
	FieldAddress = "address"
	FieldPort    = "port"

	// Synthesis
	FieldScenario = "scenario"
	FieldSubject  = "subject"
	FieldTemplate = "template"
)

// Context keys for propagating logging context
type contextKey string

const (
	requestIDKey contextKey = "logger_request_id"
	projectIDKey contextKey = "logger_project_id"
	componentKey contextKey = "logger_component"
)

// WithRequestID adds a request ID to the context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithProjectID adds a project ID to the context for logging
func WithProjectID(ctx context.Context, projectID string) context.Context {
	return context.WithValue(ctx, projectIDKey, projectID)
}

// WithComponent adds a component name to the context for logging
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// FieldsFromContext extracts logging fields from context.
// Returns key-value pairs suitable for use with Infow/Errorw/etc.
func FieldsFromContext(ctx context.Context) []interface{} {
	var fields []interface{}

	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		fields = append(fields, FieldRequestID, requestID)
	}
	if projectID, ok := ctx.Value(projectIDKey).(string); ok && projectID != "" {
		fields = append(fields, FieldProjectID, projectID)
	}
	if component, ok := ctx.Value(componentKey).(string); ok && component != "" {
		fields = append(fields, FieldComponent, component)
	}

	return fields
}

// LoggerFromContext returns base with the fields carried by ctx attached.
func LoggerFromContext(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	fields := FieldsFromContext(ctx)
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	srv := server.New(cfg, svc, logger.ComponentLogger("server"))
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}
