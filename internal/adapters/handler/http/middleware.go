package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// RequestVerifier authenticates a raw webhook request.
type RequestVerifier interface {
	Verify(header http.Header, body []byte) error
}

// VerifySlackSignature rejects requests not signed by Slack. The body is
// buffered so handlers can read it again.
func VerifySlackSignature(verifier RequestVerifier, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				http.Error(w, "failed to read body", http.StatusBadRequest)
				return
			}
			if err := verifier.Verify(r.Header, body); err != nil {
				log.WithError(err).WithField("path", r.URL.Path).Warn("rejected unsigned request")
				http.Error(w, "invalid signature", http.StatusUnauthorized)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))
			next.ServeHTTP(w, r)
		})
	}
}

type logFormatter struct {
	log logrus.FieldLogger
}

func (f *logFormatter) NewLogEntry(r *http.Request) middleware.LogEntry {
	return &logEntry{log: f.log.WithFields(logrus.Fields{
		"request_id": middleware.GetReqID(r.Context()),
		"method":     r.Method,
		"path":       r.URL.Path,
		"remote":     r.RemoteAddr,
	})}
}

type logEntry struct {
	log logrus.FieldLogger
}

func (e *logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ any) {
	e.log.WithFields(logrus.Fields{
		"status":  status,
		"bytes":   bytes,
		"elapsed": elapsed.String(),
	}).Info("request served")
}

func (e *logEntry) Panic(v any, stack []byte) {
	e.log.WithField("stack", string(stack)).Error(fmt.Sprintf("panic: %v", v))
}
