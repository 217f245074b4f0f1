package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/kbukum/resultkit/logger"
)

// RequestLogger returns middleware that logs every request with method,
// path, status code and duration. Health-check paths are skipped.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isHealthEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			fields := logger.DurationFields(r.Method+" "+r.URL.Path, time.Since(start))
			fields["method"] = r.Method
			fields["path"] = r.URL.Path
			fields[logger.FieldStatus] = sw.status

			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = sw.Header().Get(HeaderRequestID)
			}
			if id != "" {
				fields[logger.FieldRequestID] = id
			}
			logByStatus(log, fields, sw.status)
		})
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}

// logByStatus logs at error for 5xx, warn for 4xx and debug otherwise.
// A nil log uses the global logger.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	switch {
	case status >= 500:
		log.Error("Request completed", fields)
	case status >= 400:
		log.Warn("Request completed", fields)
	default:
		log.Debug("Request completed", fields)
	}
}
