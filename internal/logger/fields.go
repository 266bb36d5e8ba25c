package logger

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	FieldTopic          = "topic"
	FieldVariant        = "variant"
	FieldSuggestions    = "suggestions"
	FieldConversationID = "conversation_id"
	FieldRequestID      = "request_id"
	FieldUtterance      = "utterance"
	FieldUtteranceLen   = "utterance_length"
	FieldLanguage       = "language"
)

// DefaultUtteranceLimit caps how much user text ends up in a log line.
const DefaultUtteranceLimit = 80

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

// WithFields attaches fields to logger, falling back to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// UtteranceFields describes user input without dumping all of it.
func UtteranceFields(text string, limit int) []zap.Field {
	if limit <= 0 {
		limit = DefaultUtteranceLimit
	}

	return []zap.Field{
		zap.String(FieldUtterance, TruncateForLog(text, limit)),
		zap.Int(FieldUtteranceLen, utf8.RuneCountInString(text)),
	}
}

// AnswerFields describes which rule answered. Empty topic or variant are skipped.
func AnswerFields(topic, variant string, suggestions int) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldTopic, Value: topic},
		StringField{Key: FieldVariant, Value: variant},
	)
	return append(fields, zap.Int(FieldSuggestions, suggestions))
}
