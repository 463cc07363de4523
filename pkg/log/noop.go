package log

var _ Logger = NoopLogger{}

// NoopLogger drops every entry. Plugins fall back to it until the host
// hands them a real logger.
type NoopLogger struct{}

// NewNoopLogger returns a logger that writes nothing.
func NewNoopLogger() *NoopLogger {
	return &NoopLogger{}
}

func (NoopLogger) Debug(string, ...Field) {}
func (NoopLogger) Info(string, ...Field)  {}
func (NoopLogger) Warn(string, ...Field)  {}
func (NoopLogger) Error(string, ...Field) {}
