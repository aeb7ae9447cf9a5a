// Package orchestrator drives the four-phase analysis pipeline of spec
// §4.5 (C5): Discovery, Selection, Extraction, Aggregation. It owns no
// business logic of its own beyond sequencing, retry/backoff, and overall
// deadline enforcement — each phase delegates to the package that actually
// implements it (discovery, the worker pool + selecter fallback, fetch +
// extract, and the worker pool again).
//
// Grounded on the teacher's internal/app/app.go Run() method for the
// overall "resolve config, build collaborators, run the pipeline, turn
// errors into a typed outcome" shape, and on internal/planner/planner.go's
// primary/fallback split (LLMPlanner falling back to a deterministic
// planner) for Phase 2's LLM-selection-with-fallback pattern.
package orchestrator

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theodore-ai/theodore/internal/apperrors"
	"github.com/theodore-ai/theodore/internal/config"
	"github.com/theodore-ai/theodore/internal/discovery"
	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/llmprovider"
	"github.com/theodore-ai/theodore/internal/model"
	"github.com/theodore-ai/theodore/internal/sitecomplexity"
	"github.com/theodore-ai/theodore/internal/workerpool"
)

// Orchestrator holds everything one analyze() call needs. A single
// instance is reused across many companies; all fields it reads concurrently
// are themselves safe for concurrent use (Pool, Complexity, Fetch).
type Orchestrator struct {
	Discoverer  *discovery.Discoverer
	Fetch       *fetch.Client
	Pool        *workerpool.Pool
	EmbedClient llmprovider.Embedder
	Complexity  *sitecomplexity.Tracker
	Config      config.Config

	taskSeq uint64
}

// Analyze runs the full pipeline for one company and returns a discriminated
// Outcome: a complete record, a partial record with warnings, or a Failure
// (spec §7). It never panics on a slow or uncooperative site — the overall
// deadline always wins.
func (o *Orchestrator) Analyze(ctx context.Context, companyName, website string) model.Outcome {
	deadline := o.Config.OverallDeadline
	if deadline <= 0 {
		deadline = config.Defaults().OverallDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	log.Info().Str("company", companyName).Str("website", website).Msg("orchestrator: starting analysis")

	// Phase 1: Discovery. No retries (spec §4.5 table): a failed or empty
	// discovery falls through to the fixed heuristic path list instead.
	candidates := o.Discoverer.Discover(ctx, website)
	if candidates.Len() == 0 {
		candidates = heuristicDiscover(ctx, o.Fetch, website)
	}
	if ctx.Err() != nil {
		return model.Fail(apperrors.KindDeadline, "overall deadline exceeded during discovery")
	}
	if candidates.Len() == 0 {
		return model.Fail(apperrors.KindNoContent, "no pages discovered for "+website)
	}

	// Phase 2: Selection.
	urls, usedFallback := o.selectPages(ctx, companyName, candidates)
	if ctx.Err() != nil {
		return model.Fail(apperrors.KindDeadline, "overall deadline exceeded during page selection")
	}
	var warnings []string
	if usedFallback {
		warnings = append(warnings, "page selection fell back to keyword ranking after the LLM selector was unavailable or untrustworthy")
	}
	if len(urls) == 0 {
		return model.Fail(apperrors.KindNoContent, "no pages selected for "+website)
	}

	// Phase 3: Extraction.
	pages, extractWarnings := o.extractPages(ctx, urls)
	warnings = append(warnings, extractWarnings...)
	if ctx.Err() != nil {
		return model.Fail(apperrors.KindDeadline, "overall deadline exceeded during extraction")
	}
	if !anyExtracted(pages) {
		return model.Fail(apperrors.KindNoContent, "no page content could be extracted for "+website)
	}

	// Phase 4: Aggregation.
	record, failKind, reason := o.aggregate(ctx, companyName, website, pages)
	if record == nil {
		if ctx.Err() != nil {
			return model.Fail(apperrors.KindDeadline, "overall deadline exceeded during aggregation")
		}
		return model.Fail(failKind, reason)
	}

	if len(warnings) > 0 {
		return model.PartialSuccess(record, warnings)
	}
	return model.Success(record)
}

// anyExtracted reports whether at least one page produced usable text.
func anyExtracted(pages []model.PageContent) bool {
	for _, p := range pages {
		if p.ExtractionMethod != model.ExtractionFailed {
			return true
		}
	}
	return false
}

// submitLLM submits prompt/system as a task of kind, retrying per policy's
// per-phase table (spec §4.5): recoverable errors and InvalidResponse get
// retried with full jitter exponential backoff up to policy.maxAttempts, everything else
// returns immediately. A RateLimited result that survives every retry is
// reported back to the caller unmodified — the caller decides whether that
// constitutes a QuotaExceeded failure.
func (o *Orchestrator) submitLLM(ctx context.Context, kind model.TaskKind, system, prompt string, policy backoffPolicy) (model.LLMResult, error) {
	var last model.LLMResult
	for attempt := 0; attempt < policy.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}
		deadline, ok := ctx.Deadline()
		if !ok {
			deadline = time.Now().Add(60 * time.Second)
		}
		task := model.LLMTask{
			TaskID:   o.nextTaskID(kind),
			Kind:     kind,
			Prompt:   prompt,
			System:   system,
			Deadline: deadline,
		}
		result, err := o.Pool.Submit(task).Get(ctx)
		if err != nil {
			return last, err
		}
		last = result
		if result.Success {
			return result, nil
		}
		retryable := result.ErrorKind.Recoverable() || result.ErrorKind == model.ErrInvalidResponse
		if !retryable || attempt == policy.maxAttempts-1 {
			return result, nil
		}
		if err := sleepWithContext(ctx, policy.delay(attempt)); err != nil {
			return last, err
		}
	}
	return last, nil
}

// nextTaskID returns a process-unique identifier for one LLM task
// submission, used only for log correlation.
func (o *Orchestrator) nextTaskID(kind model.TaskKind) string {
	n := atomic.AddUint64(&o.taskSeq, 1)
	return string(kind) + "-" + strconv.FormatUint(n, 10)
}
