package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/postdeck/postdeck-go/internal/model"
)

// idleTTL is how long a client address is remembered after its last request.
const idleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
	now      func() time.Time
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: rl.now()}
		return limiter
	}

	v.lastSeen = rl.now()
	return v.limiter
}

func (rl *ipRateLimiter) evictIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, v := range rl.visitors {
		if rl.now().Sub(v.lastSeen) > idleTTL {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *ipRateLimiter) cleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.evictIdle()
		}
	}
}

// RateLimit returns middleware that limits requests per IP address, along
// with a function that stops its background cleanup.
// rps is the allowed requests per second, burst is the maximum burst size.
func RateLimit(rps float64, burst int) (func(http.Handler) http.Handler, func()) {
	limiter := newIPRateLimiter(rps, burst)

	stop := make(chan struct{})
	var once sync.Once
	go limiter.cleanup(stop)

	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.getLimiter(ip).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(model.AuthResponse{
					Success: false,
					Message: "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	return mw, func() { once.Do(func() { close(stop) }) }
}
