// Package selecter implements the deterministic fallback page selector used
// in Phase 2 of the pipeline (spec §4.5, C3) when the LLM-guided selector is
// unavailable or returns an unusable response. It ranks a candidate set by
// keyword match against a fixed list of path segments known to carry
// company-intelligence signal, and returns at most 15 URLs.
//
// Grounded on the teacher's internal/select/select.go, whose shape (parse,
// canonicalize, cap, dedupe) survives; the diversity/per-domain-cap search
// result ranking it used for picking among search engine results is
// replaced with keyword scoring over a CandidateSet, since this pipeline's
// Phase 2 operates over discovered site URLs rather than search results.
package selecter

import (
	"net/url"
	"sort"
	"strings"

	"github.com/theodore-ai/theodore/internal/model"
)

// MaxSelected is the hard cap on URLs returned by Select (spec §4.5).
const MaxSelected = 15

// keywords are path/query substrings, in priority order, that the fallback
// selector matches against. Earlier entries rank candidates higher.
var keywords = []string{
	"about", "contact", "team", "leadership", "careers",
	"product", "service", "pricing", "partner",
	"case-stud", "insight", "foundation",
}

// Select scores every candidate URL in set by keyword match and returns the
// top MaxSelected, most-relevant first, breaking ties by original candidate
// order (which already reflects source priority: sitemap > robots > nav >
// recursive, per model.CandidateSet).
func Select(set *model.CandidateSet) []string {
	type scored struct {
		url   string
		score int
		index int
	}
	items := set.Items()
	out := make([]scored, 0, len(items))
	for i, c := range items {
		out = append(out, scored{url: c.URL, score: keywordScore(c.URL), index: i})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].index < out[j].index
	})
	limit := MaxSelected
	if len(out) < limit {
		limit = len(out)
	}
	urls := make([]string, 0, limit)
	for i := 0; i < limit; i++ {
		urls = append(urls, out[i].url)
	}
	return urls
}

// keywordScore sums a weight for every keyword found in u's path and query
// (case-insensitive); earlier keywords weigh more, and a higher score means
// more relevant.
func keywordScore(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	haystack := strings.ToLower(u.Path + "?" + u.RawQuery)
	score := 0
	for i, kw := range keywords {
		if strings.Contains(haystack, kw) {
			// earlier keywords contribute more weight
			score += len(keywords) - i
		}
	}
	return score
}
