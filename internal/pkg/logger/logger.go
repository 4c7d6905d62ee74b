package logger

// Logger defines the logging interface.
//
// Arguments follow slog conventions when the first one is a message and the
// rest are key/value pairs ("dump created", "name", name). Anything else is
// concatenated into a single message.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})
}
