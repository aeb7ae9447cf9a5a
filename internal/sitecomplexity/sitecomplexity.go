// Package sitecomplexity tracks, per host, whether a site has shown itself
// to need more time than the default timeouts allow (spec §7's adaptive
// timeout rule and the "complex-site retry multiplier" Open Question). It
// is a small process-wide map guarded by a mutex, consulted by fetch.Client
// callers to raise PerRequestTimeout before the first attempt for hosts
// already known to be slow.
//
// Grounded on the locking pattern used by the teacher's
// internal/cache/httpcache.go (guard a plain map with a mutex, no
// eviction), scaled down to a single bool per host instead of a full cache
// entry.
package sitecomplexity

import "sync"

// Tracker records host -> is-complex, shared across a single pipeline run.
type Tracker struct {
	mu      sync.Mutex
	complex map[string]bool
}

// NewTracker returns an empty, ready-to-use Tracker.
func NewTracker() *Tracker {
	return &Tracker{complex: make(map[string]bool)}
}

// IsComplex reports whether host has previously been marked complex.
func (t *Tracker) IsComplex(host string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.complex[host]
}

// MarkComplex records host as complex for the remainder of the run. Once
// marked, a host stays marked: complexity here is a one-way signal used to
// raise initial timeouts, not a transient health check.
func (t *Tracker) MarkComplex(host string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.complex[host] = true
}

// InitialTimeoutMultiplier returns the multiplier to apply to a fetch
// client's default PerRequestTimeout before the first attempt against host.
func (t *Tracker) InitialTimeoutMultiplier(host string) float64 {
	if t.IsComplex(host) {
		return 2.0
	}
	return 1.0
}
