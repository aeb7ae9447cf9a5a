package similarity

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// expansionBackoff mirrors the orchestrator's Phase 2 retry table (spec
// §4.5, reused by §4.6's "Rate-limit and retry as in §4.5" instruction):
// up to 2 retries, full-jitter exponential, base 2s cap 30s.
var expansionBackoff = backoffPolicy{maxAttempts: 3, base: 2 * time.Second, cap: 30 * time.Second}

type backoffPolicy struct {
	maxAttempts int
	base        time.Duration
	cap         time.Duration
}

func (p backoffPolicy) delay(retryIndex int) time.Duration {
	exp := float64(p.base) * math.Pow(2, float64(retryIndex))
	if exp > float64(p.cap) {
		exp = float64(p.cap)
	}
	return time.Duration(rand.Float64() * exp)
}

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
