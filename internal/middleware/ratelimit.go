package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const visitorTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func newClientLimiter(ctx context.Context, rps float64, burst int) *clientLimiter {
	cl := &clientLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
	go cl.sweep(ctx, time.NewTicker(visitorTTL))
	return cl
}

func (cl *clientLimiter) allow(ip string, now time.Time) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	v, ok := cl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// sweep evicts idle visitors until ctx is done.
func (cl *clientLimiter) sweep(ctx context.Context, t *time.Ticker) {
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			cl.evictIdle(now)
		}
	}
}

func (cl *clientLimiter) evictIdle(now time.Time) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	for ip, v := range cl.visitors {
		if now.Sub(v.lastSeen) > visitorTTL {
			delete(cl.visitors, ip)
		}
	}
}

// RateLimit returns middleware that limits requests per client IP, taken
// from RemoteAddr. rps is the allowed requests per second, burst is the
// maximum burst size. The idle-visitor sweeper stops when ctx is done.
func RateLimit(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	limiter := newClientLimiter(ctx, rps, burst)
	retryAfter := strconv.Itoa(int(math.Ceil(1 / rps)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.allow(ip, time.Now()) {
				w.Header().Set("Retry-After", retryAfter)
				writeJSONError(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
