package logger

import (
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a Logger implementation for tests that records every message
// instead of writing it anywhere. Derived loggers (WithField and friends)
// share the same recorder.
type TestLogger struct {
	core   *testLogCore
	fields map[string]interface{}
	err    error
}

type testLogCore struct {
	mu       sync.Mutex
	messages []LogMessage
	zerolog  *zerolog.Logger
}

// LogMessage is a single captured log entry.
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
	Error   error
}

// NewTestLogger creates a recording logger.
func NewTestLogger() *TestLogger {
	nop := zerolog.Nop()
	return &TestLogger{
		core: &testLogCore{zerolog: &nop},
	}
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.messages = append(l.core.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
		Error:   l.err,
	})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

func (l *TestLogger) FatalWithFields(msg string, fields map[string]interface{}) {
	l.log("FATAL", msg, fields)
}

// WithField returns a derived logger carrying the extra field.
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a derived logger carrying the extra fields.
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &TestLogger{core: l.core, fields: merged, err: l.err}
}

// WithError returns a derived logger carrying the error.
func (l *TestLogger) WithError(err error) Logger {
	return &TestLogger{core: l.core, fields: l.fields, err: err}
}

// GetZerolog returns a no-op zerolog instance.
func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return l.core.zerolog
}

// GetMessages returns a copy of all captured messages.
func (l *TestLogger) GetMessages() []LogMessage {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	out := make([]LogMessage, len(l.core.messages))
	copy(out, l.core.messages)
	return out
}

// GetMessagesByLevel returns the captured messages with the given level.
func (l *TestLogger) GetMessagesByLevel(level string) []LogMessage {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	var filtered []LogMessage
	for _, msg := range l.core.messages {
		if msg.Level == level {
			filtered = append(filtered, msg)
		}
	}
	return filtered
}

// HasMessage reports whether a message with the given text was logged.
func (l *TestLogger) HasMessage(text string) bool {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	for _, msg := range l.core.messages {
		if msg.Message == text {
			return true
		}
	}
	return false
}

// HasError reports whether anything was logged at ERROR level.
func (l *TestLogger) HasError() bool {
	return len(l.GetMessagesByLevel("ERROR")) > 0
}

// Clear drops all captured messages.
func (l *TestLogger) Clear() {
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	l.core.messages = l.core.messages[:0]
}
