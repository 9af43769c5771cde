package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// ClientLimiter rate-limits per client IP with a token bucket each. The
// map grows with distinct clients; for this app's scale that's fine, and
// buckets are tiny.
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	r        rate.Limit
	b        int
}

// NewClientLimiter allows reqPerMin sustained requests per client with a
// burst of the same size, so a page load's flurry of API calls passes.
func NewClientLimiter(reqPerMin int) *ClientLimiter {
	return &ClientLimiter{
		limiters: make(map[string]*rate.Limiter),
		r:        rate.Limit(float64(reqPerMin) / 60.0),
		b:        reqPerMin,
	}
}

func (cl *ClientLimiter) limiterFor(client string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if lim, ok := cl.limiters[client]; ok {
		return lim
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.limiters[client] = lim
	return lim
}

// Allow reports whether a request from the client may proceed now.
func (cl *ClientLimiter) Allow(client string) bool {
	return cl.limiterFor(client).Allow()
}

// Handler enforces the limit, answering 429 with the standard error shape
// when a client exceeds it. Mount after chi's RealIP so RemoteAddr holds
// the actual client behind a proxy.
func (cl *ClientLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := r.RemoteAddr
		if host, _, err := net.SplitHostPort(client); err == nil {
			client = host
		}

		if !cl.Allow(client) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited","message":"too many requests, slow down"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
