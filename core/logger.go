package core

// Logger is implemented by every log sink used by the apps.
// args may hold errors, maps of extra data and the current session.User.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
