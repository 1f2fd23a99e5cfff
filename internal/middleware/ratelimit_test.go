package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterEnforcesLimitPerIP(t *testing.T) {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    2,
		window:   time.Minute,
	}

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should be allowed")
	}
	if rl.Allow("1.2.3.4") {
		t.Error("third request inside the window should be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("a different IP should have its own budget")
	}
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	rl := &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    1,
		window:   time.Minute,
	}

	// Backdate the only recorded request past the window.
	rl.requests["1.2.3.4"] = []time.Time{time.Now().Add(-2 * time.Minute)}

	if !rl.Allow("1.2.3.4") {
		t.Error("requests outside the window should not count against the limit")
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:54321"
	if ip := getClientIP(req); ip != "10.0.0.1" {
		t.Errorf("getClientIP() = %q, want RemoteAddr without port", ip)
	}

	req.Header.Set("X-Real-IP", "203.0.113.9")
	if ip := getClientIP(req); ip != "203.0.113.9" {
		t.Errorf("getClientIP() = %q, want X-Real-IP", ip)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	if ip := getClientIP(req); ip != "198.51.100.7" {
		t.Errorf("getClientIP() = %q, want first X-Forwarded-For hop", ip)
	}
}
