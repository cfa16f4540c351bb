package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PotatoCodder/library-management-backend/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimiter_AllowsInitialAttempts(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour, // Long interval to prevent cleanup during test
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("192.168.1.1", "testuser")
		if !allowed {
			t.Errorf("Attempt %d should be allowed", i+1)
		}
		rl.RecordFailure("192.168.1.1", "testuser")
	}

	allowed, retryAfter := rl.Allow("192.168.1.1", "testuser")
	if allowed {
		t.Error("4th attempt should be blocked")
	}
	if retryAfter == 0 {
		t.Error("retryAfter should be non-zero when blocked")
	}
}

func TestRateLimiter_RecordFailureReportsLockout(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     2,
		WindowDuration:  time.Minute,
		LockoutDuration: 5 * time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	locked, _ := rl.RecordFailure("10.0.0.1", "alice")
	if locked {
		t.Error("first failure should not lock")
	}

	locked, retryAfter := rl.RecordFailure("10.0.0.1", "alice")
	if !locked {
		t.Error("second failure should lock")
	}
	if retryAfter != 5*time.Minute {
		t.Errorf("retryAfter = %v, want 5m", retryAfter)
	}
}

func TestRateLimiter_SuccessResetsCounter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     3,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "testuser")
	rl.RecordFailure("192.168.1.1", "testuser")

	rl.RecordSuccess("192.168.1.1", "testuser")

	allowed, _ := rl.Allow("192.168.1.1", "testuser")
	if !allowed {
		t.Error("Should be allowed after successful login")
	}
}

func TestRateLimiter_DifferentUsersAreIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     2,
		WindowDuration:  time.Minute,
		LockoutDuration: time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	rl.RecordFailure("192.168.1.1", "user1")
	rl.RecordFailure("192.168.1.1", "user1")

	allowed, _ := rl.Allow("192.168.1.1", "user1")
	if allowed {
		t.Error("user1 should be blocked")
	}

	allowed, _ = rl.Allow("192.168.1.1", "user2")
	if !allowed {
		t.Error("user2 should be allowed")
	}
}

func TestRateLimiter_WindowExpiryForgetsFailures(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		MaxAttempts:     2,
		WindowDuration:  time.Minute,
		LockoutDuration: 5 * time.Minute,
		CleanupInterval: time.Hour,
	})
	defer rl.Stop()

	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.RecordFailure("10.0.0.1", "alice")
	clock = clock.Add(2 * time.Minute)

	locked, _ := rl.RecordFailure("10.0.0.1", "alice")
	if locked {
		t.Error("failure after the window closed should start a new window")
	}

	rl.RecordFailure("10.0.0.1", "alice")
	clock = clock.Add(4 * time.Minute)
	if allowed, _ := rl.Allow("10.0.0.1", "alice"); allowed {
		t.Error("lockout should outlast the counting window")
	}

	clock = clock.Add(2 * time.Minute)
	if allowed, _ := rl.Allow("10.0.0.1", "alice"); !allowed {
		t.Error("should be allowed once the lockout ends")
	}

	rl.sweep()
	if len(rl.failures) != 0 {
		t.Errorf("sweep left %d entries", len(rl.failures))
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimitConfig())
	rl.Stop()
	rl.Stop()
}

func TestRateLimitConfigFrom(t *testing.T) {
	cfg := RateLimitConfigFrom(config.Auth{
		MaxLoginAttempts: 7,
		RateLimitWindow:  time.Minute,
		LockoutDuration:  2 * time.Minute,
	})

	if cfg.MaxAttempts != 7 || cfg.WindowDuration != time.Minute || cfg.LockoutDuration != 2*time.Minute {
		t.Errorf("RateLimitConfigFrom() = %+v", cfg)
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeadersMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	headers := map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "no-referrer",
	}

	for header, expected := range headers {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("Header %s = %q, want %q", header, got, expected)
		}
	}

	if csp := rr.Header().Get("Content-Security-Policy"); csp == "" {
		t.Error("Content-Security-Policy header should be set")
	}
}

func TestHSTSHeader(t *testing.T) {
	router := gin.New()
	router.Use(StrictTransportSecurityMiddleware(31536000))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "" {
		t.Error("HSTS should not be set for HTTP requests")
	}

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if hsts := rr.Header().Get("Strict-Transport-Security"); hsts != "max-age=31536000; includeSubDomains" {
		t.Errorf("HSTS = %q for HTTPS request", hsts)
	}
}
