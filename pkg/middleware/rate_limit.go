package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	apperrors "medassist/pkg/errors"
	httputil "medassist/pkg/http"
	"medassist/pkg/logger"

	"golang.org/x/time/rate"
)

const CallerIDHeader = "X-Caller-ID"

type KeyExtractor func(r *http.Request) string

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// CallerRateLimiter allows limit requests per window for each caller, with
// bursts up to limit.
type CallerRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*callerLimiter
	limit     int
	window    time.Duration
	extractor KeyExtractor
	log       *logger.Logger
	stopCh    chan struct{}
	stopOnce  sync.Once
}

func NewCallerRateLimiter(limit int, window time.Duration, extractor KeyExtractor, log *logger.Logger) *CallerRateLimiter {
	if extractor == nil {
		extractor = DefaultKeyExtractor
	}
	limiter := &CallerRateLimiter{
		limiters:  make(map[string]*callerLimiter),
		limit:     limit,
		window:    window,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

func (rl *CallerRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, cl := range rl.limiters {
				if now.Sub(cl.lastSeen) > rl.window {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *CallerRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *CallerRateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	rl.mu.Lock()
	cl, ok := rl.limiters[key]
	if !ok {
		cl = &callerLimiter{
			limiter: rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit),
		}
		rl.limiters[key] = cl
	}
	cl.lastSeen = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

func RateLimit(limiter *CallerRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.extractor(r)

			if !limiter.Allow(key) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", RequestID(r.Context()),
					"caller", key,
					"path", r.URL.Path,
				)
				httputil.WriteError(w, apperrors.RateLimited("Rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// DefaultKeyExtractor keys on X-Caller-ID, falling back to the client IP.
func DefaultKeyExtractor(r *http.Request) string {
	if caller := r.Header.Get(CallerIDHeader); caller != "" {
		return caller
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
