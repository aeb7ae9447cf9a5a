// Package discovery implements Link Discovery (C3): turning a site root
// into a deduplicated CandidateSet drawn from robots.txt-declared sitemaps,
// sitemap indexes, root-page navigation anchors, and a bounded same-domain
// recursive crawl.
//
// Grounded on the teacher's internal/robots/robots.go for the robots
// fetch/parse/cache plumbing (extended here with the longest-match
// Allowed() check it never needed) and on refyne-api's sitemap and
// colly-based url_discovery services for the XML and crawl shapes; fetch
// goes through the shared internal/fetch.Client so discovery gets the same
// retry and adaptive-timeout behavior as every other HTTP call in the
// pipeline.
package discovery

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theodore-ai/theodore/internal/fetch"
	"github.com/theodore-ai/theodore/internal/model"
	"github.com/theodore-ai/theodore/internal/robots"
)

// DefaultDeadline is the hard deadline spec §4.3 imposes on discover(): on
// expiry, whatever has been collected so far is returned, never an error.
const DefaultDeadline = 30 * time.Second

// Discoverer runs link discovery for a single site root.
type Discoverer struct {
	Fetch     *fetch.Client
	Robots    *robots.Manager
	UserAgent string
	// Deadline overrides DefaultDeadline when non-zero.
	Deadline time.Duration
}

// Discover implements the discover(site_root) -> CandidateSet contract.
// It never returns an error: each sub-step fails independently and an
// empty result is a valid, successful outcome (spec §4.3 "Failure
// policy").
func (d *Discoverer) Discover(ctx context.Context, siteRoot string) *model.CandidateSet {
	deadline := d.Deadline
	if deadline <= 0 {
		deadline = DefaultDeadline
	}
	ctx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	set := model.NewCandidateSet()

	root, err := url.Parse(siteRoot)
	if err != nil || root.Host == "" {
		log.Warn().Str("site_root", siteRoot).Err(err).Msg("discovery: invalid site root")
		return set
	}
	root.Fragment = ""

	sitemapURLs, disallowed := d.discoverViaRobots(ctx, root)
	for _, u := range sitemapURLs {
		if ctx.Err() != nil {
			return set
		}
		set.Add(normalizeURL(u), model.SourceSitemap)
	}
	for _, u := range disallowed {
		log.Debug().Str("url", u).Msg("discovery: path disallowed by robots, recorded not added")
	}

	if ctx.Err() == nil {
		d.discoverViaDefaultSitemap(ctx, root, set)
	}

	if ctx.Err() == nil {
		d.discoverViaNav(ctx, root, set)
	}

	if ctx.Err() == nil {
		for _, u := range recursiveCrawl(root.String(), set, d.UserAgent) {
			if set.Len() >= model.MaxCandidateSetSize {
				break
			}
			set.Add(u, model.SourceRecursive)
		}
	}

	return set
}

// discoverViaRobots fetches robots.txt, follows its Sitemap: directives,
// and separately reports which candidate paths it explicitly disallows
// (spec §4.3 step 1: disallowed paths are recorded, not included).
func (d *Discoverer) discoverViaRobots(ctx context.Context, root *url.URL) (urls []string, disallowedPaths []string) {
	if d.Robots == nil {
		return nil, nil
	}
	robotsURL := root.Scheme + "://" + root.Host + "/robots.txt"
	rules, _, err := d.Robots.Get(ctx, robotsURL)
	if err != nil {
		return nil, nil
	}

	visited := map[string]bool{}
	for _, sm := range rules.Sitemaps() {
		urls = append(urls, fetchSitemapURLs(ctx, d.Fetch, sm, 0, visited)...)
	}
	for _, g := range rules.Groups {
		disallowedPaths = append(disallowedPaths, g.Disallow...)
	}
	return urls, disallowedPaths
}

// discoverViaDefaultSitemap tries the conventional /sitemap.xml location
// even when robots.txt declared none, per spec §4.3 step 2 ("plus the
// default /sitemap.xml").
func (d *Discoverer) discoverViaDefaultSitemap(ctx context.Context, root *url.URL, set *model.CandidateSet) {
	defaultURL := root.Scheme + "://" + root.Host + "/sitemap.xml"
	visited := map[string]bool{}
	for _, u := range fetchSitemapURLs(ctx, d.Fetch, defaultURL, 0, visited) {
		if set.Len() >= model.MaxCandidateSetSize {
			return
		}
		set.Add(normalizeURL(u), model.SourceSitemap)
	}
}

// discoverViaNav fetches the root page and harvests anchors sitting inside
// header/footer/nav elements (spec §4.3 step 3).
func (d *Discoverer) discoverViaNav(ctx context.Context, root *url.URL, set *model.CandidateSet) {
	body, contentType, err := d.Fetch.Get(ctx, root.String())
	if err != nil || !strings.Contains(contentType, "html") {
		return
	}
	for _, u := range navAnchors(root, body) {
		if set.Len() >= model.MaxCandidateSetSize {
			return
		}
		if u2 := normalizeURL(u); u2 != "" {
			set.Add(u2, model.SourceNav)
		}
	}
}
