package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldComponent names the package that produced the entry (catalog, extract, advisor, ...).
	FieldComponent = "component"
	// FieldProvider is the structured log field key for the advisor provider name.
	FieldProvider = "advisor_provider"
	// FieldModel is the structured log field key for the advisor model identifier.
	FieldModel = "advisor_model"
	// FieldSource is the resume or catalog file an entry refers to.
	FieldSource = "source"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// WithComponent tags every entry of the returned logger with the component name.
func WithComponent(logger *zap.Logger, component string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldComponent, Value: component})...)
}

// AdvisorFields describes the provider and model behind the skill-gap advisor.
// Empty values are ignored to keep log entries compact when information is missing.
func AdvisorFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
