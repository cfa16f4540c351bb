package auth

import (
	"sync"
	"time"

	"github.com/PotatoCodder/library-management-backend/internal/config"
)

// RateLimitConfig controls login throttling.
type RateLimitConfig struct {
	MaxAttempts     int           // Failures allowed inside one window (default: 5)
	WindowDuration  time.Duration // Failures older than this are forgotten (default: 15m)
	LockoutDuration time.Duration // Lockout after MaxAttempts failures (default: 30m)
	CleanupInterval time.Duration // Sweep interval for stale entries (default: 5m)
}

// DefaultRateLimitConfig returns the limits used when nothing is configured.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     5,
		WindowDuration:  15 * time.Minute,
		LockoutDuration: 30 * time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// RateLimitConfigFrom maps the AUTH_* settings onto a limiter configuration.
func RateLimitConfigFrom(cfg config.Auth) RateLimitConfig {
	return RateLimitConfig{
		MaxAttempts:     cfg.MaxLoginAttempts,
		WindowDuration:  cfg.RateLimitWindow,
		LockoutDuration: cfg.LockoutDuration,
	}
}

// RateLimiter locks out an IP and username pair after too many failed logins.
// Successful logins clear the pair. State is in memory and per process.
type RateLimiter struct {
	cfg RateLimitConfig
	now func() time.Time

	mu       sync.Mutex
	failures map[loginKey]*failureWindow

	stop     chan struct{}
	stopOnce sync.Once
}

type loginKey struct {
	ip       string
	username string
}

type failureWindow struct {
	count       int
	openedAt    time.Time
	lockedUntil time.Time
}

// NewRateLimiter starts a limiter and its background sweep. Call Stop when done.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaults.MaxAttempts
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = defaults.WindowDuration
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = defaults.LockoutDuration
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaults.CleanupInterval
	}

	rl := &RateLimiter{
		cfg:      cfg,
		now:      time.Now,
		failures: make(map[loginKey]*failureWindow),
		stop:     make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow reports whether a login for the pair may proceed. When it may not,
// the duration says how long until it can be retried.
func (rl *RateLimiter) Allow(ip, username string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.failures[loginKey{ip, username}]
	if !ok {
		return true, 0
	}
	if now.Before(w.lockedUntil) {
		return false, w.lockedUntil.Sub(now)
	}
	if w.expired(now, rl.cfg.WindowDuration) || w.count < rl.cfg.MaxAttempts {
		return true, 0
	}
	return false, rl.cfg.LockoutDuration
}

// RecordFailure counts a failed login and reports whether the pair is now locked.
func (rl *RateLimiter) RecordFailure(ip, username string) (bool, time.Duration) {
	now := rl.now()
	key := loginKey{ip, username}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.failures[key]
	if !ok || w.expired(now, rl.cfg.WindowDuration) {
		w = &failureWindow{openedAt: now}
		rl.failures[key] = w
	}

	w.count++
	if w.count < rl.cfg.MaxAttempts {
		return false, 0
	}
	w.lockedUntil = now.Add(rl.cfg.LockoutDuration)
	return true, rl.cfg.LockoutDuration
}

// RecordSuccess forgets all failures for the pair.
func (rl *RateLimiter) RecordSuccess(ip, username string) {
	rl.mu.Lock()
	delete(rl.failures, loginKey{ip, username})
	rl.mu.Unlock()
}

// expired reports whether the window has closed and no lockout is running.
func (w *failureWindow) expired(now time.Time, window time.Duration) bool {
	return now.Sub(w.openedAt) > window && !now.Before(w.lockedUntil)
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.failures {
		if w.expired(now, rl.cfg.WindowDuration) {
			delete(rl.failures, key)
		}
	}
}
