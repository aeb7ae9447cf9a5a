package orchestrator

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// backoffPolicy is one row of the per-phase retry table in spec §4.5.
type backoffPolicy struct {
	maxAttempts int // total attempts including the first, so retries = maxAttempts-1
	base        time.Duration
	cap         time.Duration
}

// delay returns the full-jitter exponential backoff for a zero-based retry
// index (0 = first retry), per spec §4.5's "exponential (base, cap, full
// jitter)" rows.
func (p backoffPolicy) delay(retryIndex int) time.Duration {
	exp := float64(p.base) * math.Pow(2, float64(retryIndex))
	if exp > float64(p.cap) {
		exp = float64(p.cap)
	}
	return time.Duration(rand.Float64() * exp)
}

var (
	phase2Backoff = backoffPolicy{maxAttempts: 3, base: 2 * time.Second, cap: 30 * time.Second}
	phase3Backoff = backoffPolicy{maxAttempts: 3, base: 1 * time.Second, cap: 10 * time.Second}
	phase4Backoff = backoffPolicy{maxAttempts: 3, base: 3 * time.Second, cap: 60 * time.Second}
)

// sleepWithContext waits for d or returns early (with ctx.Err()) if ctx is
// cancelled first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
