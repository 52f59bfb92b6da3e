package filter

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ordergate/pkg/metrics"
)

const (
	defaultRPS             = 10.0
	defaultBurst           = 20
	limiterCleanupInterval = 5 * time.Minute
	limiterMaxAge          = 10 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitFilter applies a per-origin token bucket. Buckets are process
// local; each gateway instance enforces its own budget.
type RateLimitFilter struct{}

func NewRateLimitFilter() *RateLimitFilter {
	return &RateLimitFilter{}
}

func (f *RateLimitFilter) Name() string {
	return "ratelimit"
}

func (f *RateLimitFilter) Apply(cfg Config) (Middleware, error) {
	rps := cfg.GetFloat("rps")
	if rps <= 0 {
		rps = defaultRPS
	}
	burst := cfg.GetInt("burst")
	if burst <= 0 {
		burst = defaultBurst
	}

	limiters := make(map[string]*clientLimiter)
	var mu sync.Mutex

	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for range ticker.C {
			mu.Lock()
			now := time.Now()
			for key, cl := range limiters {
				if now.Sub(cl.lastSeen) > limiterMaxAge {
					delete(limiters, key)
				}
			}
			mu.Unlock()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "unknown"
			if rc := RequestContextFrom(r.Context()); rc != nil && rc.Origin != "" {
				key = rc.Origin
			}

			mu.Lock()
			cl, ok := limiters[key]
			if !ok {
				cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
				limiters[key] = cl
			}
			cl.lastSeen = time.Now()
			allowed := cl.limiter.Allow()
			mu.Unlock()

			if !allowed {
				metrics.FilterRejectionsTotal.WithLabelValues(f.Name(), "rate_limited").Inc()
				w.Header().Set("Retry-After", strconv.Itoa(1))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}
