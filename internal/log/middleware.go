package log

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request with method, path, status, and
// elapsed time. 4xx logs at warn, 5xx at error.
func RequestLogger(logger *Logger) func(http.Handler) http.Handler {
	httpLog := logger.WithComponent(ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			args := []any{
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
				FieldStatusCode, rec.status,
				FieldDuration, time.Since(start).Milliseconds(),
			}
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				args = append(args, FieldRequestID, reqID)
			}
			switch {
			case rec.status >= 500:
				httpLog.Error("request completed", args...)
			case rec.status >= 400:
				httpLog.Warn("request completed", args...)
			default:
				httpLog.Info("request completed", args...)
			}
		})
	}
}
