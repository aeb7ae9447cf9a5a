package orchestrator

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/theodore-ai/theodore/internal/apperrors"
	"github.com/theodore-ai/theodore/internal/extract"
	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/model"
)

// extractPages fetches and extracts every URL with up to
// config.ExtractMaxConcurrent pages in flight at once (spec §4.5 Phase 3),
// retrying each URL independently per phase3Backoff. A URL that never
// recovers contributes a failed PageContent plus a warning rather than
// aborting the phase.
func (o *Orchestrator) extractPages(ctx context.Context, urls []string) ([]model.PageContent, []string) {
	pages := make([]model.PageContent, len(urls))
	warnings := make([]string, 0)
	var warnMu sync.Mutex

	concurrency := o.Config.ExtractMaxConcurrent
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		wg.Add(1)
		go func(idx int, pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			page, warning := o.extractOneWithRetry(ctx, pageURL)
			pages[idx] = page
			if warning != "" {
				warnMu.Lock()
				warnings = append(warnings, warning)
				warnMu.Unlock()
			}
		}(i, u)
	}
	wg.Wait()
	return pages, warnings
}

// extractOneWithRetry fetches and extracts a single URL, retrying on
// Timeout/Transport per phase3Backoff. Every failed fetch marks the host
// complex in o.Complexity (spec §7's SiteComplexity rule), so later attempts
// against that host use fetchClientFor's raised timeout.
func (o *Orchestrator) extractOneWithRetry(ctx context.Context, pageURL string) (model.PageContent, string) {
	host := hostOf(pageURL)
	var lastErr error
	for attempt := 0; attempt < phase3Backoff.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return model.NewFailedPageContent(pageURL, 0, attempt), pageURL + ": " + ctx.Err().Error()
		}
		body, _, err := o.fetchClientFor(host).Get(ctx, pageURL)
		if err == nil {
			return extract.ExtractWithThreshold(pageURL, 200, body, attempt, o.Config.ExtractPrimaryThresholdChars), ""
		}
		lastErr = err
		kind := classifyFetchErr(err)
		if o.Complexity != nil {
			o.Complexity.MarkComplex(host)
		}
		if !apperrors.Recoverable(kind) || attempt == phase3Backoff.maxAttempts-1 {
			break
		}
		if sleepErr := sleepWithContext(ctx, phase3Backoff.delay(attempt)); sleepErr != nil {
			lastErr = sleepErr
			break
		}
	}
	return model.NewFailedPageContent(pageURL, 0, phase3Backoff.maxAttempts-1), pageURL + ": " + lastErr.Error()
}

// fetchClientFor returns o.Fetch, with its per-request timeout raised by
// o.Complexity's multiplier for host when the tracker has already marked it
// complex, without mutating the shared client.
func (o *Orchestrator) fetchClientFor(host string) *fetch.Client {
	if o.Complexity == nil || !o.Complexity.IsComplex(host) {
		return o.Fetch
	}
	scaled := *o.Fetch
	mult := o.Complexity.InitialTimeoutMultiplier(host)
	if scaled.PerRequestTimeout > 0 {
		scaled.PerRequestTimeout = time.Duration(float64(scaled.PerRequestTimeout) * mult)
	}
	return &scaled
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// classifyFetchErr maps a fetch.Client error into the shared apperrors
// taxonomy so Phase 3 can reuse the same recoverable/backoff logic as the
// LLM-backed phases, instead of duplicating error classification.
func classifyFetchErr(err error) apperrors.Kind {
	if err == nil {
		return ""
	}
	if err == context.DeadlineExceeded {
		return apperrors.KindTimeout
	}
	if err == context.Canceled {
		return apperrors.KindCancelled
	}
	return apperrors.KindTransport
}
