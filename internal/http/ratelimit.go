package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	maxRequestsPerMinute = 60
	rateLimitWindow      = time.Minute
	clientCleanupPeriod  = 5 * time.Minute
)

type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow

	stopOnce sync.Once
	stopCh   chan struct{}
}

type clientWindow struct {
	count       int
	windowStart time.Time
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string]*clientWindow),
		stopCh:  make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(clientCleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	cutoff := time.Now().Add(-2 * rateLimitWindow)
	for ip, cw := range rl.clients {
		if cw.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// allow reports whether the client identified by ip may make another
// request within the current window.
func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[ip]
	if !ok || now.Sub(cw.windowStart) >= rateLimitWindow {
		rl.clients[ip] = &clientWindow{count: 1, windowStart: now}
		return true
	}
	if cw.count >= maxRequestsPerMinute {
		return false
	}
	cw.count++
	return true
}

// clientIP extracts the caller's address, preferring proxy headers when
// present so the limiter keys on the real client rather than the proxy.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return strings.TrimSpace(real)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
