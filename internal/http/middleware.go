package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"frota/internal/log"
	"frota/internal/observability"
)

// securityHeaders sets the usual hardening headers on every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with the fields the rest of
// the codebase uses.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	httpLogger := logger.WithComponent(log.ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			httpLogger.InfoContext(r.Context(), "request",
				log.FieldRequestID, middleware.GetReqID(r.Context()),
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldStatusCode, ww.Status(),
				log.FieldDuration, time.Since(start).Milliseconds())
		})
	}
}

// metricsMiddleware records request duration and status class. The
// route label is the chi pattern ("/api/v1/vehicles/{id}"), not the raw
// path, to keep record ids out of the label cardinality.
func metricsMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(ww.Status()/100) + "xx"
			metrics.RecordRequest(route, r.Method, status, time.Since(start))
		})
	}
}

// writeLimiter throttles mutating requests per client IP with a fixed
// one-minute window. Reads are never limited.
type writeLimiter struct {
	mu      sync.Mutex
	limit   int
	counts  map[string]int
	resetAt time.Time
}

func newWriteLimiter(perMinute int) *writeLimiter {
	return &writeLimiter{
		limit:   perMinute,
		counts:  make(map[string]int),
		resetAt: time.Now().Add(time.Minute),
	}
}

func (l *writeLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.resetAt) {
		l.counts = make(map[string]int)
		l.resetAt = now.Add(time.Minute)
	}
	l.counts[ip]++
	return l.counts[ip] <= l.limit
}

func (l *writeLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			if !l.allow(ip) {
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
