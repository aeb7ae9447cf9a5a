package orchestrator

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/theodore-ai/theodore/internal/apperrors"
	"github.com/theodore-ai/theodore/internal/llmprovider"
	"github.com/theodore-ai/theodore/internal/model"
)

// aggregate is Phase 4 (spec §4.5): build the corpus, ask the model to
// populate CompanyRecord's fields from it, and attach an embedding when the
// orchestrator has an Embedder. A nil record means aggregation could not
// produce a usable result; failKind/reason explain why, with RateLimited
// that survived every retry reported as QuotaExceeded (spec §4.5's retry
// table note on exhausted rate-limit retries).
func (o *Orchestrator) aggregate(ctx context.Context, companyName, website string, pages []model.PageContent) (record *model.CompanyRecord, failKind apperrors.Kind, reason string) {
	corpus := buildCorpus(pages, o.Config.ExtractPromptBudgetChars)
	if strings.TrimSpace(corpus) == "" {
		return nil, apperrors.KindNoContent, "no extractable content to aggregate"
	}

	system := buildAggregationSystem()
	prompt := buildAggregationUser(companyName, website, corpus)
	result, err := o.submitLLM(ctx, model.TaskAggregation, system, prompt, phase4Backoff)
	if err != nil {
		return nil, apperrors.KindDeadline, "aggregation call did not complete: " + err.Error()
	}
	if !result.Success {
		if result.ErrorKind == model.ErrRateLimited {
			return nil, apperrors.KindQuotaExceeded, "rate limit persisted through every aggregation retry"
		}
		return nil, apperrors.KindInvalidResp, "aggregation failed: " + string(result.ErrorKind)
	}

	var rec model.CompanyRecord
	if jsonErr := json.Unmarshal([]byte(extractJSONObject(result.Content)), &rec); jsonErr != nil {
		return nil, apperrors.KindInvalidResp, "aggregation response was not valid JSON: " + jsonErr.Error()
	}
	if rec.Name == "" {
		rec.Name = companyName
	}
	if website != "" && rec.Website == nil {
		rec.Website = &website
	}

	if embedder, ok := o.Embedder(); ok {
		text := embeddingSourceText(&rec)
		if vec, embedErr := embedder.Embed(ctx, text); embedErr == nil {
			rec.Embedding = vec
		}
	}

	return &rec, "", ""
}

// embedderOrNil is implemented per-orchestrator construction; kept as a
// method so callers don't need to know whether the configured provider
// actually supports embedding (spec §9: callers type-assert, they don't
// branch on provider identity).
func (o *Orchestrator) Embedder() (llmprovider.Embedder, bool) {
	if o.EmbedClient == nil {
		return nil, false
	}
	return o.EmbedClient, true
}

// embeddingSourceText joins the record's descriptive fields into the text
// that gets embedded, so the vector reflects what the record actually says
// rather than raw page text.
func embeddingSourceText(r *model.CompanyRecord) string {
	var b strings.Builder
	b.WriteString(r.Name)
	if r.Description != nil {
		b.WriteString(". ")
		b.WriteString(*r.Description)
	}
	if r.Industry != nil {
		b.WriteString(". Industry: ")
		b.WriteString(*r.Industry)
	}
	if r.ValueProposition != nil {
		b.WriteString(". ")
		b.WriteString(*r.ValueProposition)
	}
	if len(r.ProductsServices) > 0 {
		b.WriteString(". Products/services: ")
		b.WriteString(strings.Join(r.ProductsServices, ", "))
	}
	return b.String()
}
