package core

// Logger is any service that can log & report messages.
// args can contain errors, extra data as map[string]interface{} and the user who triggered the log.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
