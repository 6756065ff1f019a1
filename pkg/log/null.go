package log

// nullLogger discards everything. It's the default for components
// constructed without an explicit Logger, and what tests use so test
// output isn't drowned in diagnostics from deliberately-malformed ROMs.
type nullLogger struct{}

// NewNullLogger returns a Logger that discards all output.
func NewNullLogger() Logger {
	return nullLogger{}
}

func (nullLogger) Infof(format string, args ...interface{})  {}
func (nullLogger) Errorf(format string, args ...interface{}) {}
func (nullLogger) Debugf(format string, args ...interface{}) {}
func (nullLogger) Warnf(site, key, format string, args ...interface{}) {}
