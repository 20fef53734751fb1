package log

import (
	"net/http"
	"time"
)

type loggingHandler struct {
	inner  http.Handler
	logger Logger
}

// NewLoggingHandler wraps a handler to log every request with its status and duration.
func NewLoggingHandler(inner http.Handler, logger Logger) http.Handler {
	return &loggingHandler{inner: inner, logger: logger}
}

func (h *loggingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	sw := &statusWriter{ResponseWriter: w}
	h.inner.ServeHTTP(sw, r)

	status := sw.status
	if status == 0 {
		status = http.StatusOK
	}

	h.logger.Info("request served",
		"method", r.Method,
		"path", r.URL.Path,
		"status", status,
		"duration", time.Since(start))
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
