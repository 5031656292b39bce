package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		key      string
		calls    int
		wantPass int
	}{
		{
			name:     "burst allows initial requests",
			rps:      1,
			burst:    3,
			key:      "test",
			calls:    3,
			wantPass: 3,
		},
		{
			name:     "exceeding burst blocks",
			rps:      1,
			burst:    2,
			key:      "test",
			calls:    5,
			wantPass: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst, 0)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow(tt.key) {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1, 0)
	defer rl.Stop()

	if !rl.Allow("a") {
		t.Fatal("first request for a should pass")
	}
	if rl.Allow("a") {
		t.Fatal("second request for a should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("b has its own bucket")
	}
}

func TestKeyedRateLimiter_ReserveReportsDelay(t *testing.T) {
	rl := New(10, 1, 0)
	defer rl.Stop()

	if ok, _ := rl.Reserve("k"); !ok {
		t.Fatal("first reserve should pass")
	}
	ok, wait := rl.Reserve("k")
	if ok {
		t.Fatal("second reserve should be rejected")
	}
	if wait <= 0 || wait > 150*time.Millisecond {
		t.Errorf("wait = %v, want about 100ms", wait)
	}
	// a rejected reservation does not consume a token
	time.Sleep(120 * time.Millisecond)
	if ok, _ := rl.Reserve("k"); !ok {
		t.Error("token should be back after the refill interval")
	}
}

func TestKeyedRateLimiter_SweepDropsIdleKeys(t *testing.T) {
	rl := New(1, 1, time.Minute)
	defer rl.Stop()

	rl.Allow("old")
	rl.Allow("fresh")
	rl.mu.Lock()
	rl.limiters["old"].lastSeen = time.Now().Add(-2 * time.Minute)
	rl.mu.Unlock()

	rl.sweep(time.Now())
	if got := rl.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}
