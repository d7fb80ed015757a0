package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/folioworks/vitae/pkg/composables"
	"github.com/folioworks/vitae/pkg/httpapi"
)

type statusWriter struct {
	http.ResponseWriter
	statusCode    int
	statusWritten bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.statusWritten {
		w.statusCode = code
		w.statusWritten = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.statusWritten {
		w.statusCode = http.StatusOK
		w.statusWritten = true
	}
	return w.ResponseWriter.Write(b)
}

// LogRequests attaches a request-scoped logrus entry to the context and logs
// one line per request. Panics in handlers are recovered and answered with a
// 500 envelope.
func LogRequests(logger *logrus.Logger, requestIDHeader string) mux.MiddlewareFunc {
	if requestIDHeader == "" {
		requestIDHeader = "X-Request-ID"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			entry := logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
			})
			ctx := composables.WithRequestID(r.Context(), requestID)
			ctx = composables.WithLogger(ctx, entry)

			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			defer func() {
				if rec := recover(); rec != nil {
					entry.WithField("stack", string(debug.Stack())).Errorf("panic: %v", rec)
					_ = httpapi.WriteError(w, r.WithContext(ctx), http.StatusInternalServerError, "INTERNAL", "internal error")
					return
				}
				entry.WithFields(logrus.Fields{
					"status":   sw.statusCode,
					"duration": time.Since(start).String(),
				}).Info("request completed")
			}()

			next.ServeHTTP(sw, r.WithContext(ctx))
		})
	}
}
