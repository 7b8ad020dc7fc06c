package server

import "log/slog"

// recoveryLogger routes gorilla/handlers panic reports to slog.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	slog.Error("panic while serving request", "panic", v)
}
