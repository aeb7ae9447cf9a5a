package similarity

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/theodore-ai/theodore/internal/model"
)

var nameFold = cases.Fold()

// lowestVectorScore returns the smallest score among vectorHits, or 1.0 when
// there are none, so an all-LLM result set still scales into (0, 1].
func lowestVectorScore(vectorHits []model.SimilarCompany) float64 {
	if len(vectorHits) == 0 {
		return 1.0
	}
	lowest := vectorHits[0].SimilarityScore
	for _, h := range vectorHits[1:] {
		if h.SimilarityScore < lowest {
			lowest = h.SimilarityScore
		}
	}
	return lowest
}

// mergeResults dedupes vectorHits and llmHits by normalized company name,
// keeping the vector hit (and its score) on a collision, and returns the
// union sorted descending by score (spec §4.6 "Merging").
func mergeResults(vectorHits, llmHits []model.SimilarCompany) []model.SimilarCompany {
	seen := make(map[string]int, len(vectorHits)+len(llmHits))
	merged := make([]model.SimilarCompany, 0, len(vectorHits)+len(llmHits))

	for _, h := range vectorHits {
		key := normalizeCompanyName(h.Name)
		if key == "" {
			continue
		}
		seen[key] = len(merged)
		merged = append(merged, h)
	}
	for _, h := range llmHits {
		key := normalizeCompanyName(h.Name)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = len(merged)
		merged = append(merged, h)
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].SimilarityScore > merged[j].SimilarityScore })
	return merged
}

// normalizeCompanyName case-folds name for Unicode-aware, locale-independent
// comparison (e.g. "ACME" and "Straße" style sharp-s variants collapse to
// the same key), not just ASCII lowercasing.
func normalizeCompanyName(name string) string {
	return nameFold.String(strings.TrimSpace(name))
}
