package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestIPRateLimiter_GetLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewIPRateLimiter(ctx, rate.Limit(1), 1)

	a := l.GetLimiter("10.0.0.1")
	if l.GetLimiter("10.0.0.1") != a {
		t.Error("expected the same limiter for the same IP")
	}
	if l.GetLimiter("10.0.0.2") == a {
		t.Error("expected distinct limiters for distinct IPs")
	}
	if l.size() != 2 {
		t.Errorf("expected 2 entries, got %d", l.size())
	}
}

func TestIPRateLimiter_Evict(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := NewIPRateLimiter(ctx, rate.Limit(1), 1)

	l.GetLimiter("10.0.0.1")
	l.evictBefore(time.Now().Add(-time.Hour))
	if l.size() != 1 {
		t.Fatalf("expected fresh entry to survive, got %d entries", l.size())
	}

	l.evictBefore(time.Now().Add(time.Second))
	if l.size() != 0 {
		t.Errorf("expected stale entry to be evicted, got %d entries", l.size())
	}
}

func TestIPRateLimiter_RetryAfter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tests := []struct {
		limit rate.Limit
		want  int
	}{
		{rate.Limit(100), 1},
		{rate.Limit(1), 1},
		{rate.Limit(0.5), 2},
		{rate.Limit(0.3), 4},
		{rate.Limit(0.001), 1000},
		{rate.Inf, 1},
	}

	for _, tt := range tests {
		l := NewIPRateLimiter(ctx, tt.limit, 1)
		if got := l.retryAfter(); got != tt.want {
			t.Errorf("retryAfter() at %v rps = %d, want %d", tt.limit, got, tt.want)
		}
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		remote string
		want   string
	}{
		{"192.0.2.1:1234", "192.0.2.1"},
		{"[2001:db8::1]:80", "2001:db8::1"},
		{"192.0.2.1", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.remote, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remote
			if got := extractIP(req); got != tt.want {
				t.Errorf("extractIP(%q) = %q, want %q", tt.remote, got, tt.want)
			}
		})
	}
}
