// Package logger provides the leveled logging interface shared by the
// nexushub daemon and CLI. Backends wrap the stdlib log package; the
// daemon composes them through MultiLogger when it logs to more than
// one sink.
package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/nexushub/nexushub/common"
)

// Logger is the logging interface used across nexushub components.
type Logger interface {
	// Info logs an informational message (e.g. "daemon started").
	Info(format string, args ...interface{})

	// Warning logs a warning message (e.g. "plugin poll retried").
	Warning(format string, args ...interface{})

	// Error logs an error message.
	Error(format string, args ...interface{})

	// Debug logs a verbose message. Backends may discard these unless
	// debug mode is enabled.
	Debug(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call
	// multiple times; returns nil for loggers without resources.
	Close() error
}

// StandardLogger wraps a stdlib *log.Logger for console or file
// output. Debug messages are emitted only when NEXUSHUB_DEBUG=1.
type StandardLogger struct {
	logger *log.Logger
	debug  bool
}

func NewStandardLogger(l *log.Logger) *StandardLogger {
	return &StandardLogger{
		logger: l,
		debug:  os.Getenv(common.DebugEnv) == "1",
	}
}

func (s *StandardLogger) Info(format string, args ...interface{}) {
	s.logger.Printf("[INFO] "+format, args...)
}

func (s *StandardLogger) Warning(format string, args ...interface{}) {
	s.logger.Printf("[WARNING] "+format, args...)
}

func (s *StandardLogger) Error(format string, args ...interface{}) {
	s.logger.Printf("[ERROR] "+format, args...)
}

func (s *StandardLogger) Debug(format string, args ...interface{}) {
	if s.debug {
		s.logger.Printf("[DEBUG] "+format, args...)
	}
}

func (s *StandardLogger) Close() error {
	return nil
}

// Raw exposes the wrapped *log.Logger for packages that take one
// directly.
func (s *StandardLogger) Raw() *log.Logger {
	return s.logger
}

// NopLogger discards all messages. Useful in tests and when logging is
// disabled.
type NopLogger struct{}

func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

var (
	_ Logger = (*StandardLogger)(nil)
	_ Logger = (*NopLogger)(nil)
)

// MockLogger records all log calls for verification in tests.
type MockLogger struct {
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	DebugCalls   []string
	CloseCalled  bool
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.DebugCalls = append(m.DebugCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Close() error {
	m.CloseCalled = true
	return nil
}

var _ Logger = (*MockLogger)(nil)
