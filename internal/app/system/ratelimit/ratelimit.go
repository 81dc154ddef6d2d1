// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Limiter counts requests per key in fixed windows. Windows live in a TTL
// cache so idle keys are evicted without a sweep loop of our own.
// It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	windows *ttlcache.Cache[string, *window]
	limit   int
	period  time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per period.
// Call Stop when the limiter is no longer needed.
func New(limit int, period time.Duration) *Limiter {
	c := ttlcache.New[string, *window](
		ttlcache.WithTTL[string, *window](period),
		ttlcache.WithDisableTouchOnHit[string, *window](),
	)
	go c.Start()
	return &Limiter{windows: c, limit: limit, period: period}
}

// Allow reports whether a request for key fits in the current window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if item := l.windows.Get(key); item != nil {
		w := item.Value()
		if now.Before(w.expiresAt) {
			if w.count >= l.limit {
				return false
			}
			w.count++
			return true
		}
	}

	l.windows.Set(key, &window{count: 1, expiresAt: now.Add(l.period)}, ttlcache.DefaultTTL)
	return true
}

// Remaining returns how many requests are left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	item := l.windows.Get(key)
	if item == nil || time.Now().After(item.Value().expiresAt) {
		return l.limit
	}
	if rem := l.limit - item.Value().count; rem > 0 {
		return rem
	}
	return 0
}

// Reset clears the window for key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.windows.Delete(key)
}

// Stop ends the cache's eviction loop.
func (l *Limiter) Stop() {
	l.windows.Stop()
}

// ClientIP extracts the client IP from an HTTP request.
// X-Forwarded-For (first hop) and X-Real-IP win over RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles sign-in attempts by client IP and by email.
type LoginLimiter struct {
	ipLimiter    *Limiter
	emailLimiter *Limiter
}

// NewLoginLimiter allows 10 attempts per IP per minute and 5 per email
// per 5 minutes.
func NewLoginLimiter() *LoginLimiter {
	return NewLoginLimiterWithConfig(10, time.Minute, 5, 5*time.Minute)
}

// NewLoginLimiterWithConfig creates a login limiter with custom limits.
func NewLoginLimiterWithConfig(ipLimit int, ipPeriod time.Duration, emailLimit int, emailPeriod time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ipLimiter:    New(ipLimit, ipPeriod),
		emailLimiter: New(emailLimit, emailPeriod),
	}
}

// Check reports whether a login attempt may proceed and, if not, a
// message suitable for the form.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.ipLimiter.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := emailKey(email); key != "" && !ll.emailLimiter.Allow(key) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetEmail clears the email window after a successful login.
func (ll *LoginLimiter) ResetEmail(email string) {
	if key := emailKey(email); key != "" {
		ll.emailLimiter.Reset(key)
	}
}

// Stop releases both limiters.
func (ll *LoginLimiter) Stop() {
	ll.ipLimiter.Stop()
	ll.emailLimiter.Stop()
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
