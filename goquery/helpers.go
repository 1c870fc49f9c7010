package goquery

import (
	"net/url"
	"strings"
)

// resolveURL resolves href against base and returns an absolute URL.
// Returns "" if the href cannot be resolved.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	// Fragments never change the fetched document.
	resolved.Fragment = ""
	return resolved.String()
}

// isSameHost returns true if the resolved URL points at the same host
// as the base URL.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// isNonHTTPLink filters out javascript:, mailto:, tel: and similar
// pseudo-links before URL resolution.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:", "#"} {
		if strings.HasPrefix(href, prefix) {
			return true
		}
	}
	return false
}

// cleanText collapses whitespace runs in element text.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
