package daemon

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/elsanchez/social-dashboard/internal/metrics"
	apperrors "github.com/elsanchez/social-dashboard/pkg/errors"
)

// RequestIDHeader es el header con el id de la request
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID reutiliza el X-Request-ID entrante o genera un UUID nuevo,
// y lo devuelve en la respuesta
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID devuelve el id de la request del contexto
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger registra cada request con zap
func Logger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", GetRequestID(r.Context())),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// Metrics cuenta requests y latencia por patrón de ruta
func Metrics(collector *metrics.Collector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if collector == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// El patrón solo se conoce después del routing
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			collector.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			collector.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

// maxTrackedClients acota cuántas IPs conservan su bucket
const maxTrackedClients = 10000

// ipLimiter mantiene un token bucket por IP; las menos recientes se descartan
type ipLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache
	limit    rate.Limit
	burst    int
}

func newIPLimiter(rps float64, burst, size int) *ipLimiter {
	if burst <= 0 {
		burst = int(rps) + 1
	}
	if size <= 0 {
		size = maxTrackedClients
	}

	// solo falla con size <= 0
	cache, _ := lru.New(size)

	return &ipLimiter{
		limiters: cache,
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if v, ok := l.limiters.Get(ip); ok {
		return v.(*rate.Limiter)
	}

	lim := rate.NewLimiter(l.limit, l.burst)
	l.limiters.Add(ip, lim)
	return lim
}

// RateLimit rechaza con 429 a las IPs que superan rps requests por segundo
func RateLimit(rps float64, burst int) func(next http.Handler) http.Handler {
	limiter := newIPLimiter(rps, burst, maxTrackedClients)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.get(ip).Allow() {
				w.Header().Set("Retry-After", "1")
				writeJSON(w, http.StatusTooManyRequests, apperrors.ErrorResponse{
					Error:     true,
					Type:      "RATE_LIMITED",
					Message:   "Too many requests",
					RequestID: GetRequestID(r.Context()),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
