package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(limit int, clock *time.Time) *Limiter {
	l := NewLimiter(Config{RequestsPerMinute: limit, CleanupInterval: time.Hour})
	l.now = func() time.Time { return *clock }
	return l
}

func TestAllowWindow(t *testing.T) {
	clock := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	l := newTestLimiter(2, &clock)
	defer l.Stop()

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatal("third request in the window should be rejected")
	}
	if !l.Allow("b") {
		t.Fatal("other clients have their own window")
	}
	if got := l.RetryAfter("a"); got != time.Minute {
		t.Errorf("RetryAfter = %v, want 1m", got)
	}

	clock = clock.Add(time.Minute)
	if !l.Allow("a") {
		t.Fatal("window should reset after a minute")
	}

	clock = clock.Add(2 * time.Minute)
	if n := l.evictStale(); n != 2 || l.ActiveClients() != 0 {
		t.Errorf("evictStale removed %d, active %d", n, l.ActiveClients())
	}
}

func TestDisabledLimiter(t *testing.T) {
	clock := time.Now()
	l := newTestLimiter(0, &clock)
	defer l.Stop()
	for i := 0; i < 100; i++ {
		if !l.Allow("a") {
			t.Fatal("limit 0 should disable limiting")
		}
	}
}

func TestMiddlewareSkipsReads(t *testing.T) {
	clock := time.Now()
	l := newTestLimiter(1, &clock)
	defer l.Stop()

	h := l.Middleware(func(r *http.Request) string { return "client" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/expenses", nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("GET should never be limited, got %d", rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/expenses", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("first POST status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/expenses/x", nil))
	if rec.Code != http.StatusTooManyRequests || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("second mutation should be limited, got %d", rec.Code)
	}
}
