package middleware

import (
	"log"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		// query ikut di-log supaya lat/lng kelihatan
		log.Printf(
			"req_id=%s method=%s path=%s query=%q status=%d duration=%s bytes=%d ip=%s user_agent=%q",
			chimw.GetReqID(r.Context()),
			r.Method,
			r.URL.Path,
			r.URL.RawQuery,
			wrapped.statusCode,
			time.Since(start),
			wrapped.written,
			clientIP(r),
			r.UserAgent(),
		)
	})
}
