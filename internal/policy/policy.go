// Package policy holds the statement registry: the set of named policies the
// service tracks consent for. The registry replaces the host's dynamic
// sub-plugin discovery with a static mapping built once from configuration and
// passed down explicitly.
package policy

import (
	"net/url"
	"strings"
)

// Policy is one named statement or notification type. A policy's enabled
// state and user agreements are tracked per context by the settings and
// agreement stores; the policy itself is pure configuration.
type Policy struct {
	// Name is the alphanumeric identifier callers use ("forum", "lti").
	Name string
	// DisplayURLs are the page URLs the statement applies to. Matching is a
	// base comparison: host/path only, query ignored. This gates a UI prompt
	// only; it is not a security boundary.
	DisplayURLs []string
	// DefaultEnabled is the form default offered when a context has no
	// setting row yet. Resolution itself is strictly row-driven.
	DefaultEnabled bool
	// Notice is the operator-configured statement text shown to users.
	Notice string
}

// Matches reports whether the statement applies on the given page URL.
func (p Policy) Matches(pageURL string) bool {
	page, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	for _, raw := range p.DisplayURLs {
		target, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if baseEqual(page, target) {
			return true
		}
	}
	return false
}

// baseEqual compares two URLs ignoring query and fragment. A relative target
// ("/mod/forum/view.php") matches any host on the same path.
func baseEqual(page, target *url.URL) bool {
	if target.Host != "" && !strings.EqualFold(page.Host, target.Host) {
		return false
	}
	return trimSlash(page.Path) == trimSlash(target.Path)
}

func trimSlash(p string) string {
	if p == "/" {
		return p
	}
	return strings.TrimSuffix(p, "/")
}
