package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a Logger recording its calls through testify/mock.
//
// Log methods are recorded as (msg, keysAndValues) so expectations match the
// message with the key-value slice as one argument, e.g.
//
//	ml.On("Warn", "tag server: unknown function", mock.Anything)
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

// NewMockLogger creates a MockLogger without expectations.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// Permissive allows every call that has no explicit expectation. Expectations
// registered before Permissive take precedence. With returns the mock itself.
func (m *MockLogger) Permissive() *MockLogger {
	for _, method := range []string{"Debug", "Info", "Warn", "Error", "Fatal"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	m.On("SetLevel", mock.Anything).Maybe()
	m.On("Level").Return(InfoLevel).Maybe()
	m.On("With", mock.Anything, mock.Anything).Return(m).Maybe()

	return m
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

// Fatal records the call and, unlike the real loggers, does not exit.
func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level Level) {
	m.Called(level)
}

func (m *MockLogger) Level() Level {
	args := m.Called()
	return args.Get(0).(Level)
}

func (m *MockLogger) With(keyValues ...any) Logger {
	args := m.Called(keyValues...)
	return args.Get(0).(Logger)
}
