// ABOUTME: HTTP middleware for panic recovery, request logging, and request metrics.
// ABOUTME: Each middleware is a func(http.Handler) http.Handler for mux.Router.Use.
package api

import (
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harperreed/trainer/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

func PanicRecovery(logger *log.Logger, m *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("panic serving request", "path", req.URL.Path, "panic", r, "stack", string(debug.Stack()))
					if m != nil {
						m.CounterHandleRequestPanic.Inc()
					}
					writeErrorMessage(w, http.StatusInternalServerError, "internal error")
				}
			}()

			next.ServeHTTP(w, req)
		})
	}
}

func LogRequest(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "ua", r.UserAgent())
			next.ServeHTTP(w, r)
		})
	}
}

func RequestMetrics(m *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			m.GaugeRequests.Inc()
			defer func(begin time.Time) {
				m.GaugeRequests.Dec()
				m.HistRequestDuration.Observe(time.Since(begin).Seconds())
			}(time.Now())

			resp := &responseWriter{w, http.StatusOK}

			next.ServeHTTP(resp, req)

			m.CounterRequests.With(prometheus.Labels{
				"method": req.Method,
				"status": strconv.Itoa(resp.statusCode),
			}).Inc()
		})
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (r *responseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.statusCode = statusCode
}
