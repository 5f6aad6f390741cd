package core

// Logger is the app-wide logging and error-reporting contract.
// Unexpected errors and best-effort side-effect failures are reported here;
// expected domain errors never are.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
