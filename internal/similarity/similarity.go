// Package similarity implements the Similarity Engine (C6, spec §4.6):
// find_similar(company_name, max_results) -> [SimilarCompany], a two-phase
// flow that queries the vector store first and only falls back to an LLM
// expansion (plus single-page surface scraping of any company it can't
// resolve a known record for) when the vector store can't fill the
// requested result count on its own.
//
// Grounded on internal/vectorstore's k_nearest/find_by_name contract for
// Phase A, and on the orchestrator's submit-with-retry pattern
// (internal/orchestrator/orchestrator.go) for Phase B's LLMTask submission
// — duplicated here in miniature rather than imported, since C6 talks to
// the Worker Pool directly instead of going through the Analysis
// Orchestrator (spec §4: "its own discovery path consumes the vector store
// directly").
package similarity

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/llmprovider"
	"github.com/theodore-ai/theodore/internal/model"
	"github.com/theodore-ai/theodore/internal/vectorstore"
	"github.com/theodore-ai/theodore/internal/workerpool"
)

// DefaultDeadline bounds a single find_similar call when Engine.Deadline is
// unset.
const DefaultDeadline = 30 * time.Second

// Engine runs find_similar against a vector store, falling back to a
// Worker-Pool-driven LLM expansion.
type Engine struct {
	Store    vectorstore.Store
	Embed    llmprovider.Embedder
	Pool     *workerpool.Pool
	Fetch    *fetch.Client
	Deadline time.Duration
}

// FindSimilar implements spec §4.6's two-phase contract.
func (e *Engine) FindSimilar(ctx context.Context, companyName string, maxResults int) ([]model.SimilarCompany, error) {
	if maxResults <= 0 {
		return nil, nil
	}
	deadline := e.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	vectorHits, err := e.phaseA(ctx, companyName, maxResults)
	if err != nil {
		return nil, err
	}
	if len(vectorHits) >= maxResults || ctx.Err() != nil {
		return vectorHits[:min(len(vectorHits), maxResults)], nil
	}

	llmHits := e.phaseB(ctx, companyName, maxResults-len(vectorHits), vectorHits)
	merged := mergeResults(vectorHits, llmHits)
	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	return merged, nil
}

// phaseA looks the target up by name; if absent, embeds the name itself and
// runs a k-NN query against that, per spec §4.6 Phase A.
func (e *Engine) phaseA(ctx context.Context, companyName string, k int) ([]model.SimilarCompany, error) {
	var queryVector []float32

	if entry, ok, err := e.Store.FindByName(ctx, companyName); err == nil && ok {
		queryVector = entry.Vector
	} else if e.Embed != nil {
		vec, embedErr := e.Embed.Embed(ctx, companyName)
		if embedErr != nil {
			return nil, nil
		}
		queryVector = vec
	}
	if len(queryVector) == 0 {
		return nil, nil
	}

	// Request one extra neighbor: the query itself is frequently its own
	// nearest match when it was looked up by name, and gets filtered below.
	matches, err := e.Store.KNearest(ctx, queryVector, k+1, nil)
	if err != nil {
		return nil, nil
	}

	out := make([]model.SimilarCompany, 0, len(matches))
	for _, m := range matches {
		name, _ := m.Metadata["name"].(string)
		if name == "" {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(companyName)) {
			continue
		}
		sc := model.SimilarCompany{
			Name:            name,
			SimilarityScore: m.Score,
			Source:          model.SourceVector,
			Researched:      true,
		}
		if site, ok := m.Metadata["website"].(string); ok && site != "" {
			sc.Website = &site
		}
		if kind, ok := m.Metadata["relationship_kind"].(string); ok {
			sc.RelationshipKind = kind
		}
		out = append(out, sc)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SimilarityScore > out[j].SimilarityScore })
	return out, nil
}
