package impulse

import "log/slog"

var logger = slog.Default()

// SetLogger replaces the package logger. A nil logger restores slog.Default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.Default()
	}
	logger = l
}

func Logger() *slog.Logger {
	return logger
}
