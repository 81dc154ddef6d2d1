package ratelimit_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/system/ratelimit"
)

func TestLimiter_AllowUpToLimit(t *testing.T) {
	l := ratelimit.New(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("request %d: got denied, want allowed", i+1)
		}
	}
	if l.Allow("k") {
		t.Error("fourth request: got allowed, want denied")
	}
	if got := l.Remaining("k"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
	if !l.Allow("other") {
		t.Error("other key: got denied, want allowed")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := ratelimit.New(1, 50*time.Millisecond)
	defer l.Stop()

	if !l.Allow("k") {
		t.Fatal("first request denied")
	}
	if l.Allow("k") {
		t.Fatal("second request allowed inside window")
	}
	time.Sleep(80 * time.Millisecond)
	if !l.Allow("k") {
		t.Error("request after window: got denied, want allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := ratelimit.New(1, time.Minute)
	defer l.Stop()

	l.Allow("k")
	l.Reset("k")
	if got := l.Remaining("k"); got != 1 {
		t.Errorf("Remaining after reset: got %d, want 1", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded first hop", "1.1.1.1, 2.2.2.2", "", "9.9.9.9:1234", "1.1.1.1"},
		{"real ip", "", "3.3.3.3", "9.9.9.9:1234", "3.3.3.3"},
		{"remote with port", "", "", "9.9.9.9:1234", "9.9.9.9"},
		{"remote without port", "", "", "9.9.9.9", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ratelimit.ClientIP(r); got != tt.want {
				t.Errorf("ClientIP: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter_EmailWindow(t *testing.T) {
	ll := ratelimit.NewLoginLimiterWithConfig(100, time.Minute, 2, time.Minute)
	defer ll.Stop()

	r := httptest.NewRequest("POST", "/login", nil)
	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(r, "Ada@Example.com"); !ok {
			t.Fatalf("attempt %d denied", i+1)
		}
	}
	if ok, msg := ll.Check(r, " ada@example.com "); ok || msg == "" {
		t.Errorf("third attempt: got ok=%v msg=%q, want denied with message", ok, msg)
	}

	ll.ResetEmail("ada@example.com")
	if ok, _ := ll.Check(r, "ada@example.com"); !ok {
		t.Error("after reset: got denied, want allowed")
	}
}
