package testingx

import (
	"strings"
	"sync"
	"testing"

	"github.com/emberlab/ember/core/errors"
	"github.com/emberlab/ember/core/log"
)

// MockLogger is a mock logger for testing.
type MockLogger struct {
	t       *testing.T
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry represents a single log entry.
type LogEntry struct {
	Level   string
	Message string
	Fields  []any
	Error   error
}

// NewMockLogger creates a new mock logger.
func NewMockLogger(t *testing.T) *MockLogger {
	return &MockLogger{
		t:       t,
		entries: make([]LogEntry, 0),
	}
}

// With returns a new logger with the given fields.
func (m *MockLogger) With(kv ...any) log.Logger {
	return m // Simplified: just return self
}

// Debug logs a debug message.
func (m *MockLogger) Debug(msg string, kv ...any) {
	m.log("DEBUG", msg, nil, kv)
}

// Info logs an info message.
func (m *MockLogger) Info(msg string, kv ...any) {
	m.log("INFO", msg, nil, kv)
}

// Warn logs a warning message.
func (m *MockLogger) Warn(msg string, kv ...any) {
	m.log("WARN", msg, nil, kv)
}

// Error logs an error message.
func (m *MockLogger) Error(err error, msg string, kv ...any) {
	m.log("ERROR", msg, err, kv)
}

// log stores a log entry.
func (m *MockLogger) log(level, msg string, err error, kv []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  kv,
		Error:   err,
	})
}

// Entries returns all log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]LogEntry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// Contains reports whether any logged message contains the substring.
func (m *MockLogger) Contains(substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		if strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}

// AssertLogged asserts that a message was logged.
func (m *MockLogger) AssertLogged(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.entries {
		if entry.Level == level && entry.Message == msg {
			return
		}
	}
	m.t.Errorf("Expected log message not found: level=%s msg=%q", level, msg)
}

// Clear clears all log entries.
func (m *MockLogger) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
}

var _ log.Logger = (*MockLogger)(nil)

// AssertError asserts that an error has the expected code.
func AssertError(t *testing.T, err error, expectedCode errors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %s, got nil", expectedCode)
	}

	code := errors.CodeOf(err)
	if code != expectedCode {
		t.Errorf("Expected error code %s, got %s", expectedCode, code)
	}
}

// AssertNoError asserts that no error occurred.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
}
