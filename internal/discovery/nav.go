package discovery

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// navAnchors walks an HTML document and returns the resolved href of every
// anchor sitting inside a header, footer, or nav element — the
// "navigation anchors" spec §4.3 step 3 asks for, as opposed to links
// buried in body copy.
func navAnchors(base *url.URL, doc []byte) []string {
	root, err := html.Parse(strings.NewReader(string(doc)))
	if err != nil {
		return nil
	}
	var out []string
	var walk func(n *html.Node, insideNav bool)
	walk = func(n *html.Node, insideNav bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "header", "footer", "nav":
				insideNav = true
			case "a":
				if insideNav {
					if href := attrValue(n, "href"); href != "" {
						if resolved := resolveHref(base, href); resolved != "" {
							out = append(out, resolved)
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, insideNav)
		}
	}
	walk(root, false)
	return out
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}
