package discovery

import (
	"context"
	"encoding/xml"

	"github.com/theodore-ai/theodore/internal/fetch"
)

const maxSitemapIndexDepth = 2

type sitemapURLEntry struct {
	Loc string `xml:"loc"`
}

type sitemapURLSet struct {
	XMLName xml.Name          `xml:"urlset"`
	URLs    []sitemapURLEntry `xml:"url"`
}

type sitemapIndexEntry struct {
	Loc string `xml:"loc"`
}

type sitemapIndex struct {
	XMLName  xml.Name            `xml:"sitemapindex"`
	Sitemaps []sitemapIndexEntry `xml:"sitemap"`
}

// fetchSitemapURLs fetches sitemapURL and returns the page URLs it lists,
// recursively expanding sitemap indexes up to maxSitemapIndexDepth (spec
// §4.3 step 2). A fetch or parse failure at any depth yields no URLs from
// that branch rather than aborting the whole walk.
func fetchSitemapURLs(ctx context.Context, client *fetch.Client, sitemapURL string, depth int, visited map[string]bool) []string {
	if depth > maxSitemapIndexDepth || visited[sitemapURL] {
		return nil
	}
	visited[sitemapURL] = true

	body, _, err := client.Get(ctx, sitemapURL)
	if err != nil {
		return nil
	}

	var index sitemapIndex
	if err := xml.Unmarshal(body, &index); err == nil && len(index.Sitemaps) > 0 {
		var urls []string
		for _, entry := range index.Sitemaps {
			if entry.Loc == "" {
				continue
			}
			urls = append(urls, fetchSitemapURLs(ctx, client, entry.Loc, depth+1, visited)...)
		}
		return urls
	}

	var set sitemapURLSet
	if err := xml.Unmarshal(body, &set); err != nil {
		return nil
	}
	urls := make([]string, 0, len(set.URLs))
	for _, u := range set.URLs {
		if u.Loc != "" {
			urls = append(urls, u.Loc)
		}
	}
	return urls
}
