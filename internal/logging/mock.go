package logging

import "sync"

// MockLogger records log calls for assertions in tests.
type MockLogger struct {
	mu      sync.Mutex
	Entries []MockEntry
}

// MockEntry is one recorded log call.
type MockEntry struct {
	Level   string
	Message string
	Fields  []Field
}

// NewMockLogger creates an empty MockLogger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, MockEntry{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("debug", msg, fields) }
func (m *MockLogger) Info(msg string, fields ...Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("error", msg, fields) }
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("fatal", msg, fields) }

func (m *MockLogger) WithError(err error) Logger {
	return m
}

func (m *MockLogger) WithField(key string, value interface{}) Logger {
	return m
}

// HasMessage reports whether any entry carries the given message.
func (m *MockLogger) HasMessage(msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Message == msg {
			return true
		}
	}
	return false
}
