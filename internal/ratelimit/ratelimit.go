// Package ratelimit implements the token-bucket rate limiter shared across
// all outbound LLM calls (spec §4.1, C1). It is one of only two pieces of
// legitimate process-wide shared state (the other is sitecomplexity); every
// worker acquires tokens through the same Limiter instance.
//
// Grounded on the pack's token-bucket limiter
// (SnapdragonPartners-maestro/pkg/agent/middleware/resilience/ratelimit),
// simplified to the single acquire/snapshot contract spec.md requires and
// with FIFO fairness made explicit via a waiter queue.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config holds the two tunables named in spec §4.1 / §6.
type Config struct {
	Capacity        int
	RefillPerSecond float64
}

// Snapshot is the read-only view returned by Limiter.Snapshot.
type Snapshot struct {
	Tokens          float64
	Capacity        int
	RefillPerSecond float64
}

// Limiter is a token bucket. All mutations are serialized by mu; waiters are
// released in FIFO order via a ticket queue so that no caller starves under
// bounded producer rates (spec §4.1, §5).
type Limiter struct {
	mu sync.Mutex

	capacity   int
	refillRate float64
	tokens     float64
	lastRefill time.Time

	// waiters is a FIFO queue of tickets. The head's channel is closed to
	// signal it may attempt a deduction; later waiters stay blocked.
	waiters []chan struct{}

	now func() time.Time
}

// New constructs a Limiter starting with a full bucket.
func New(cfg Config) *Limiter {
	if cfg.Capacity <= 0 {
		cfg.Capacity = 1
	}
	if cfg.RefillPerSecond <= 0 {
		cfg.RefillPerSecond = 0.1
	}
	return &Limiter{
		capacity:   cfg.Capacity,
		refillRate: cfg.RefillPerSecond,
		tokens:     float64(cfg.Capacity),
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// refillLocked applies continuous refill. Caller must hold mu.
func (l *Limiter) refillLocked() {
	now := l.now()
	elapsed := now.Sub(l.lastRefill).Seconds()
	if elapsed > 0 {
		l.tokens += elapsed * l.refillRate
		if l.tokens > float64(l.capacity) {
			l.tokens = float64(l.capacity)
		}
	}
	l.lastRefill = now
}

// Snapshot returns current tokens, capacity, and refill rate without
// mutating state (spec §4.1).
func (l *Limiter) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.refillLocked()
	return Snapshot{Tokens: l.tokens, Capacity: l.capacity, RefillPerSecond: l.refillRate}
}

// ErrTimeout is returned by Acquire when waitBudget elapses before n tokens
// become available.
type ErrTimeout struct{}

func (ErrTimeout) Error() string { return "ratelimit: timeout waiting for tokens" }

// ErrCancelled is returned by Acquire when ctx is cancelled while waiting.
type ErrCancelled struct{}

func (ErrCancelled) Error() string { return "ratelimit: cancelled while waiting for tokens" }

// Acquire blocks until n tokens are available, then atomically deducts
// them. It returns ErrTimeout if waitBudget elapses first, or ErrCancelled
// if ctx is done first. waitBudget <= 0 means "return immediately": either
// tokens are available right now, or ErrTimeout is returned without
// blocking at all (spec §8 boundary behavior) — such calls skip the FIFO
// queue entirely since they never wait.
func (l *Limiter) Acquire(ctx context.Context, n int, waitBudget time.Duration) error {
	if n <= 0 {
		n = 1
	}

	if waitBudget <= 0 {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.refillLocked()
		if l.tokens >= float64(n) {
			l.tokens -= float64(n)
			return nil
		}
		return ErrTimeout{}
	}

	deadline := time.NewTimer(waitBudget)
	defer deadline.Stop()

	ticket := l.enqueue()
	defer l.dequeue(ticket)

	select {
	case <-ticket:
	case <-ctx.Done():
		return ErrCancelled{}
	case <-deadline.C:
		return ErrTimeout{}
	}

	for {
		l.mu.Lock()
		l.refillLocked()
		if l.tokens >= float64(n) {
			l.tokens -= float64(n)
			l.advanceQueueLocked()
			l.mu.Unlock()
			return nil
		}
		wait := l.waitForTokensLocked(n)
		l.mu.Unlock()

		select {
		case <-time.After(wait):
			continue
		case <-ctx.Done():
			return ErrCancelled{}
		case <-deadline.C:
			return ErrTimeout{}
		}
	}
}

// waitForTokensLocked computes the minimum duration until n tokens would be
// available given the current refill rate. Caller must hold mu.
func (l *Limiter) waitForTokensLocked(n int) time.Duration {
	deficit := float64(n) - l.tokens
	if deficit <= 0 {
		return 0
	}
	seconds := deficit / l.refillRate
	return time.Duration(seconds * float64(time.Second))
}

// enqueue registers a new FIFO waiter and returns a channel that is closed
// (by advanceQueueLocked, or immediately here if the queue was empty) once
// it's this waiter's turn to attempt a deduction.
func (l *Limiter) enqueue() chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan struct{})
	l.waiters = append(l.waiters, ch)
	if len(l.waiters) == 1 {
		close(ch)
	}
	return ch
}

// advanceQueueLocked pops the current head of the waiter queue (the caller
// that just succeeded) and signals the new head. Caller must hold mu.
func (l *Limiter) advanceQueueLocked() {
	if len(l.waiters) == 0 {
		return
	}
	l.waiters = l.waiters[1:]
	if len(l.waiters) > 0 {
		closeIfOpen(l.waiters[0])
	}
}

// dequeue removes a waiter's ticket from the queue on early exit (timeout
// or cancellation) so later waiters aren't blocked on a ticket that will
// never be consumed.
func (l *Limiter) dequeue(ticket chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, w := range l.waiters {
		if w == ticket {
			wasHead := i == 0
			l.waiters = append(l.waiters[:i], l.waiters[i+1:]...)
			if wasHead && len(l.waiters) > 0 {
				closeIfOpen(l.waiters[0])
			}
			return
		}
	}
}

func closeIfOpen(ch chan struct{}) {
	select {
	case <-ch:
		// already closed
	default:
		close(ch)
	}
}
