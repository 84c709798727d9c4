package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ehz-labs/ocr-api/internal/apierr"
)

// RateLimiter provides global and per-IP rate limiting for the API. A rate
// of 0 disables the corresponding limit, matching the configuration
// convention where rate limiting is off for testing.
type RateLimiter struct {
	global  *rate.Limiter
	perIP   map[string]*ipLimiter
	mu      sync.Mutex
	cleanup *time.Ticker
	done    chan struct{}
	ipRate  rate.Limit
	ipBurst int
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter with global and per-IP limits.
// globalRate/ipRate are requests per second; a value of 0 disables that limit.
func NewRateLimiter(globalRate float64, globalBurst int, ipRate float64, ipBurst int) *RateLimiter {
	rl := &RateLimiter{
		perIP:   make(map[string]*ipLimiter),
		cleanup: time.NewTicker(1 * time.Minute),
		done:    make(chan struct{}),
		ipRate:  rate.Limit(ipRate),
		ipBurst: ipBurst,
	}
	if globalRate > 0 {
		rl.global = rate.NewLimiter(rate.Limit(globalRate), globalBurst)
	}

	// Remove stale per-IP entries in the background
	go rl.cleanupStaleEntries()

	return rl
}

// getLimiter returns the rate limiter for a given IP address.
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, exists := rl.perIP[ip]; exists {
		l.lastSeen = time.Now()
		return l.limiter
	}

	l := &ipLimiter{
		limiter:  rate.NewLimiter(rl.ipRate, rl.ipBurst),
		lastSeen: time.Now(),
	}
	rl.perIP[ip] = l
	return l.limiter
}

// cleanupStaleEntries removes IP limiters that haven't been used in 3 minutes.
func (rl *RateLimiter) cleanupStaleEntries() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanup.C:
			rl.mu.Lock()
			for ip, l := range rl.perIP {
				if time.Since(l.lastSeen) > 3*time.Minute {
					delete(rl.perIP, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop stops the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.cleanup.Stop()
	close(rl.done)
}

// Limit returns a middleware handler that enforces rate limits.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.global != nil && !rl.global.Allow() {
			apierr.WriteErrorWithContext(w, r, apierr.RateLimitGlobal())
			return
		}

		if rl.ipRate > 0 {
			ip := getClientIP(r)
			if !rl.getLimiter(ip).Allow() {
				apierr.WriteErrorWithContext(w, r, apierr.RateLimitIP())
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP from the request, checking common proxy headers.
func getClientIP(r *http.Request) string {
	// X-Forwarded-For can contain multiple IPs; take the first one
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
