package orchestrator

import (
	"fmt"
	"strings"

	"github.com/theodore-ai/theodore/internal/model"
)

// buildSelectionSystem is the Phase 2 system message: rank discovered URLs
// by likelihood of carrying company-intelligence signal.
func buildSelectionSystem() string {
	return "You perform page selection for a company website: choose which discovered pages are worth reading in full to extract business intelligence. " +
		"Prefer about/contact/team/leadership/careers/product/pricing pages over blog posts or legal boilerplate. " +
		"Respond with strict JSON only: {\"urls\": [\"...\"]}, at most 15 entries, most relevant first."
}

// buildSelectionUser lists the candidate URLs, grouped by discovery source
// so the model can weigh sitemap-declared pages above ones only found by
// crawling.
func buildSelectionUser(companyName string, candidates []model.Candidate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n\n", companyName)
	b.WriteString("Candidate pages (url — discovery source):\n")
	for _, c := range candidates {
		fmt.Fprintf(&b, "- %s — %s\n", c.URL, c.Source)
	}
	b.WriteString("\nReturn at most 15 URLs from this exact list, most relevant first, as JSON: {\"urls\": [...]}")
	return b.String()
}

// buildAggregationSystem is the Phase 4 system message: populate every
// named company field from the supplied page excerpts, or leave it absent.
func buildAggregationSystem() string {
	return "You aggregate page excerpts into a single company record with structured business intelligence. " +
		"Use ONLY the supplied excerpts; never invent facts. " +
		"Omit a field entirely (do not guess a placeholder) when the excerpts do not support it. " +
		"For every field you do populate, also set a confidence score in [0,1] under the matching key in \"confidence\". " +
		"Respond with strict JSON only, matching this shape: {\"name\": \"...\", \"website\": \"...\", \"description\": \"...\", " +
		"\"industry\": \"...\", \"business_model_class\": \"...\", \"value_proposition\": \"...\", \"target_market\": \"...\", " +
		"\"pricing_mechanism\": \"...\", \"products_services\": [\"...\"], \"key_services\": [\"...\"], \"tech_stack\": [\"...\"], " +
		"\"competitive_advantages\": [\"...\"], \"leadership\": [{\"name\": \"...\", \"role\": \"...\"}], \"location\": \"...\", " +
		"\"founding_year\": 0, \"employee_range\": \"...\", \"has_job_listings\": false, \"confidence\": {\"field\": 0.0}}"
}

// buildAggregationUser assembles the Phase 4 user message from the
// extracted corpus, truncated by the caller to the prompt budget before
// this is called.
func buildAggregationUser(companyName, website, corpus string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", companyName)
	if website != "" {
		fmt.Fprintf(&b, "Website: %s\n", website)
	}
	b.WriteString("\nExtracted page content:\n\n")
	b.WriteString(corpus)
	b.WriteString("\n\nOutput only the JSON object described above. No prose, no markdown fences.")
	return b.String()
}
