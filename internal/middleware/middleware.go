// Package middleware holds the HTTP middleware shared by the server routes.
package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/handlers"
)

// Recovery turns a handler panic into a 500 and logs the stack.
func Recovery(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(panicLogger{}))(next)
}

// panicLogger adapts slog to the recovery handler. Println runs inside the
// deferred recover, so the stack still holds the panicking frames.
type panicLogger struct{}

func (panicLogger) Println(v ...any) {
	slog.Error("handler panicked", "panic", fmt.Sprint(v...), "stack", string(debug.Stack()))
}

// Logger logs one line per request, WebSocket upgrades included.
func Logger(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, logRequest)
}

func logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	slog.Info("request",
		"method", p.Request.Method,
		"path", p.URL.Path,
		"status", p.StatusCode,
		"size", p.Size,
		"duration", time.Since(p.TimeStamp),
	)
}
