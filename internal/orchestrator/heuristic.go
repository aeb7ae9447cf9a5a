package orchestrator

import (
	"context"
	"strings"

	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/model"
)

// guessedPaths are the conventional paths a company site is likely to carry
// even when it publishes no sitemap and its nav markup doesn't resolve
// cleanly (spec §4.5 Phase 1's discovery fallback).
var guessedPaths = []string{
	"/", "/about", "/contact", "/careers", "/products", "/services", "/team", "/pricing",
}

// heuristicDiscover probes guessedPaths against siteRoot and returns
// whichever ones respond, used only when Discover's own sitemap/nav/crawl
// steps came back empty (spec §4.5: "if discovery still returns nothing,
// fall back to probing a fixed list of conventional paths").
func heuristicDiscover(ctx context.Context, client *fetch.Client, siteRoot string) *model.CandidateSet {
	set := model.NewCandidateSet()
	root := strings.TrimRight(siteRoot, "/")
	for _, path := range guessedPaths {
		if ctx.Err() != nil {
			break
		}
		candidate := root + path
		if _, _, err := client.Get(ctx, candidate); err != nil {
			continue
		}
		if normalized, err := model.NormalizeURL(candidate); err == nil {
			set.Add(normalized, model.SourceRecursive)
		}
	}
	return set
}
