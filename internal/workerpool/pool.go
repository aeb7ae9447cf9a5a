// Package workerpool implements the bounded pool of goroutines that
// executes LLMTasks against a provider (spec §4.2, C2). Each worker holds
// its own network session so that a stuck socket in one worker cannot
// stall the others (spec §5's "Provider HTTP session" row).
//
// Grounded on the pack's semaphore-based worker_pool
// (quantmind-br-gendocs/internal/worker_pool/pool.go), generalized from a
// one-shot "run N tasks and collect results" batch runner into a long-lived
// pool with submit()/shutdown() semantics, and on the teacher's
// newHighThroughputHTTPClient isolation pattern in internal/app/app.go.
package workerpool

import (
	"context"
	"sync"
	"time"

	"github.com/theodore-ai/theodore/internal/apperrors"
	"github.com/theodore-ai/theodore/internal/llmprovider"
	"github.com/theodore-ai/theodore/internal/model"
	"github.com/theodore-ai/theodore/internal/ratelimit"
	"github.com/rs/zerolog/log"
)

// Future resolves to a single LLMResult once the worker that accepted the
// task finishes executing it.
type Future struct {
	done chan model.LLMResult
}

// Get blocks until the result is ready or ctx is done, whichever is first.
func (f *Future) Get(ctx context.Context) (model.LLMResult, error) {
	select {
	case r := <-f.done:
		return r, nil
	case <-ctx.Done():
		return model.LLMResult{}, ctx.Err()
	}
}

// Pool is a bounded set of workers, each owning an isolated
// llmprovider.Client, all gated by a shared ratelimit.Limiter.
type Pool struct {
	limiter  *ratelimit.Limiter
	newClient func() llmprovider.Client

	tasks     chan submission
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    chan struct{}
}

type submission struct {
	task model.LLMTask
	out  chan model.LLMResult
}

// Config configures pool construction.
type Config struct {
	// Workers is the number of goroutines in the pool (N >= 1).
	Workers int
	// Limiter is the shared C1 rate limiter every worker acquires through.
	Limiter *ratelimit.Limiter
	// NewClient builds one isolated provider client per worker. Called once
	// per worker at pool startup so that each worker owns its own
	// connection/session state.
	NewClient func() llmprovider.Client
}

// New starts Workers goroutines and returns the running Pool.
func New(cfg Config) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	p := &Pool{
		limiter:   cfg.Limiter,
		newClient: cfg.NewClient,
		tasks:     make(chan submission),
		closed:    make(chan struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.runWorker(i)
	}
	return p
}

// Submit enqueues task for execution and returns a Future for its result.
// Submit blocks until a worker accepts the task, but never past
// task.Deadline: a task no worker has picked up by then resolves to a
// Timeout result. If the pool has been shut down, the returned Future
// resolves immediately to a Cancelled result.
func (p *Pool) Submit(task model.LLMTask) *Future {
	out := make(chan model.LLMResult, 1)
	f := &Future{done: out}
	select {
	case <-p.closed:
		out <- model.LLMResult{TaskID: task.TaskID, Success: false, ErrorKind: model.ErrCancelled}
		return f
	default:
	}
	timer := time.NewTimer(time.Until(task.Deadline))
	defer timer.Stop()
	select {
	case p.tasks <- submission{task: task, out: out}:
	case <-p.closed:
		out <- model.LLMResult{TaskID: task.TaskID, Success: false, ErrorKind: model.ErrCancelled}
	case <-timer.C:
		out <- model.LLMResult{TaskID: task.TaskID, Success: false, ErrorKind: model.ErrTimeout}
	}
	return f
}

// Shutdown stops accepting new tasks and waits for in-flight tasks to
// complete or fail with Cancelled (spec §8: "no task is silently
// dropped").
func (p *Pool) Shutdown() {
	p.closeOnce.Do(func() { close(p.closed) })
	p.wg.Wait()
}

func (p *Pool) runWorker(id int) {
	defer p.wg.Done()
	client := p.newClient()
	for {
		select {
		case sub := <-p.tasks:
			sub.out <- p.execute(client, sub.task)
		case <-p.closed:
			return
		}
	}
}

// execute runs the three-step worker procedure of spec §4.2: acquire a
// rate-limit token bounded by the task's remaining deadline, invoke the
// provider under a hard per-call timeout, then return the classified
// result. No retries happen here — that is the orchestrator's job (§4.2
// "No implicit retries inside the worker").
func (p *Pool) execute(client llmprovider.Client, task model.LLMTask) model.LLMResult {
	start := time.Now()

	waitBudget := time.Until(task.Deadline)
	ctx, cancel := context.WithDeadline(context.Background(), task.Deadline)
	defer cancel()

	if p.limiter != nil {
		if err := p.limiter.Acquire(ctx, 1, waitBudget); err != nil {
			kind := model.ErrTimeout
			if _, ok := err.(ratelimit.ErrCancelled); ok {
				kind = model.ErrCancelled
			}
			return model.LLMResult{TaskID: task.TaskID, Success: false, ErrorKind: kind, Duration: time.Since(start)}
		}
	}

	callTimeout := callTimeoutFor(task)
	callCtx, callCancel := context.WithTimeout(ctx, callTimeout)
	defer callCancel()

	resp, err := client.Complete(callCtx, llmprovider.Request{
		System:      task.System,
		Prompt:      task.Prompt,
		MaxTokens:   4096,
		Temperature: 0.1,
	})
	duration := time.Since(start)
	if err != nil {
		kind := classify(err)
		log.Warn().Str("task_id", task.TaskID).Str("kind", string(kind)).Err(err).Msg("llm task failed")
		return model.LLMResult{TaskID: task.TaskID, Success: false, ErrorKind: kind, Duration: duration}
	}
	return model.LLMResult{
		TaskID:    task.TaskID,
		Success:   true,
		Content:   resp.Text,
		TokensIn:  resp.TokensIn,
		TokensOut: resp.TokensOut,
		Cost:      resp.Cost,
		Duration:  duration,
	}
}

// callTimeoutFor applies the default/aggregation split from spec §4.2: 30s
// default, extended to 60s for aggregation tasks whose prompts exceed
// 10,000 characters.
func callTimeoutFor(task model.LLMTask) time.Duration {
	if task.Kind == model.TaskAggregation && len(task.Prompt) > 10_000 {
		return 60 * time.Second
	}
	return 30 * time.Second
}

func classify(err error) model.ErrorKind {
	if e, ok := apperrors.As(err); ok {
		switch e.Kind {
		case apperrors.KindRateLimited:
			return model.ErrRateLimited
		case apperrors.KindTimeout, apperrors.KindDeadline:
			return model.ErrTimeout
		case apperrors.KindTransport:
			return model.ErrTransport
		case apperrors.KindInvalidResp:
			return model.ErrInvalidResponse
		case apperrors.KindCancelled:
			return model.ErrCancelled
		case apperrors.KindProviderFatal:
			return model.ErrProviderFatal
		}
	}
	if err == context.DeadlineExceeded {
		return model.ErrTimeout
	}
	if err == context.Canceled {
		return model.ErrCancelled
	}
	return model.ErrTransport
}
