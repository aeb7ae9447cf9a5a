package discovery

import (
	"net/url"
	"sync"

	"github.com/gocolly/colly/v2"

	"github.com/theodore-ai/theodore/internal/model"
)

const maxRecursiveDepth = 3

// recursiveCrawl performs the bounded same-domain crawl of spec §4.3 step 4,
// returning newly discovered URLs not already present in existing. It stops
// at maxRecursiveDepth and once the candidate set would exceed
// model.MaxCandidateSetSize.
func recursiveCrawl(root string, existing *model.CandidateSet, userAgent string) []string {
	rootURL, err := url.Parse(root)
	if err != nil || rootURL.Host == "" {
		return nil
	}

	c := colly.NewCollector(
		colly.MaxDepth(maxRecursiveDepth),
		colly.Async(true),
		colly.UserAgent(userAgent),
	)
	c.AllowedDomains = []string{rootURL.Host}

	var mu sync.Mutex
	var found []string
	seen := map[string]bool{}
	for _, u := range existing.URLs() {
		seen[u] = true
	}

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if href == "" {
			return
		}
		absolute := e.Request.AbsoluteURL(href)
		if absolute == "" {
			return
		}
		normalized := normalizeURL(absolute)
		if normalized == "" {
			return
		}

		mu.Lock()
		defer mu.Unlock()
		if seen[normalized] {
			return
		}
		if existing.Len()+len(found) >= model.MaxCandidateSetSize {
			return
		}
		seen[normalized] = true
		found = append(found, normalized)
		_ = e.Request.Visit(absolute)
	})

	_ = c.Visit(root)
	c.Wait()

	return found
}

func normalizeURL(raw string) string {
	normalized, err := model.NormalizeURL(raw)
	if err != nil {
		return ""
	}
	return normalized
}
