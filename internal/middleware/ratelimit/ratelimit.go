// Package ratelimit caps how often a single client may call the mutating
// endpoints.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Config holds rate limiter settings. A non-positive RequestsPerMinute
// disables limiting.
type Config struct {
	RequestsPerMinute int
	CleanupInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 60,
		CleanupInterval:   5 * time.Minute,
	}
}

// Limiter is a fixed one-minute window per client key.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*window
	limit   int
	now     func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type window struct {
	start    time.Time
	requests int
}

// NewLimiter starts a limiter. Call Stop to end its cleanup goroutine.
func NewLimiter(cfg Config) *Limiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = DefaultConfig().CleanupInterval
	}
	l := &Limiter{
		clients: make(map[string]*window),
		limit:   cfg.RequestsPerMinute,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	go l.cleanup(cfg.CleanupInterval)
	return l
}

// Allow records a request from key and reports whether it is within the
// limit.
func (l *Limiter) Allow(key string) bool {
	if l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.clients[key] = &window{start: now, requests: 1}
		return true
	}
	w.requests++
	return w.requests <= l.limit
}

// RetryAfter is how long key has to wait for its window to reset.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.clients[key]
	if !ok {
		return 0
	}
	if d := time.Minute - l.now().Sub(w.start); d > 0 {
		return d
	}
	return 0
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictStale()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) evictStale() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-time.Minute)
	removed := 0
	for key, w := range l.clients {
		if w.start.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Middleware limits requests whose method is not GET, HEAD or OPTIONS.
func (l *Limiter) Middleware(extractKey func(*http.Request) string, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			key := extractKey(r)
			if !l.Allow(key) {
				secs := int(l.RetryAfter(key).Seconds()) + 1
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				if onLimit != nil {
					onLimit(w, r)
					return
				}
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
