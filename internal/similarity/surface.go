package similarity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/theodore-ai/theodore/internal/extract"
	"github.com/theodore-ai/theodore/internal/model"
)

// guessHomepage derives a plausible homepage URL from a company name when
// the LLM expansion didn't supply a website, so surfaceAnalyze still has a
// single page to fetch (spec §4.6 Phase B: "for any candidate lacking a
// website").
func guessHomepage(name string) string {
	slug := slugifyCompanyName(name)
	if slug == "" {
		return ""
	}
	return "https://www." + slug + ".com"
}

func slugifyCompanyName(name string) string {
	lowered := strings.ToLower(name)
	for _, suffix := range []string{", inc.", ", inc", " inc.", " inc", " llc", " ltd", " ltd.", " corp", " corp.", " gmbh", " co."} {
		lowered = strings.TrimSuffix(lowered, suffix)
	}
	var b strings.Builder
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			// collapse separators, don't emit one yet
		}
	}
	return b.String()
}

type surfaceAnalysisResponse struct {
	Relevant bool   `json:"relevant"`
	Summary  string `json:"summary"`
}

// surfaceAnalyze fetches a single page for website, extracts its text, and
// asks the model whether it plausibly describes a company related to the
// seed (spec §4.6 Phase B). It returns a relationship label — the model's
// summary on success, or fallbackRelationship (the expansion's own
// justification) when the fetch or call fails — and whether the candidate
// was actually researched.
func (e *Engine) surfaceAnalyze(ctx context.Context, website, fallbackRelationship string) (string, bool) {
	if e.Fetch == nil {
		return fallbackRelationship, false
	}
	body, _, err := e.Fetch.Get(ctx, website)
	if err != nil || len(body) == 0 {
		return fallbackRelationship, false
	}
	doc := extract.FromHTML(body)
	if strings.TrimSpace(doc.Text) == "" {
		return fallbackRelationship, false
	}

	system := "You perform a single-page surface analysis of a candidate company's website. " +
		"Respond with strict JSON only: {\"relevant\": true|false, \"summary\": \"...\"}."
	prompt := fmt.Sprintf("Website: %s\nTitle: %s\nContent excerpt:\n%s", website, doc.Title, truncateRunes(doc.Text, 4000))

	result, err := e.submitLLM(ctx, model.TaskSurfaceAnalysis, system, prompt)
	if err != nil || !result.Success {
		return fallbackRelationship, false
	}

	var parsed surfaceAnalysisResponse
	if jsonErr := json.Unmarshal([]byte(extractJSONObject(result.Content)), &parsed); jsonErr != nil {
		return fallbackRelationship, false
	}
	if !parsed.Relevant || strings.TrimSpace(parsed.Summary) == "" {
		return fallbackRelationship, true
	}
	return parsed.Summary, true
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
