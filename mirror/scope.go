package mirror

import (
	"net/url"
	"strings"
)

// InScope reports whether candidate belongs to the mirror: it must share
// the seed's network location (host plus port). Scheme is deliberately
// ignored so http/https variants of one site stay in scope. A candidate
// with no host (a relative reference that was never resolved against
// its page) is out of scope by definition.
func InScope(candidate, seed *url.URL) bool {
	if candidate == nil || candidate.Host == "" {
		return false
	}
	return candidate.Host == seed.Host
}

// vcsRef reports whether a raw markup reference mentions version-control
// metadata. Such references are never rewritten or followed: a .git
// directory exposed over HTTP would otherwise be mirrored wholesale.
func vcsRef(ref string) bool {
	return strings.Contains(ref, ".git")
}

// vcsPath reports whether a URL path contains a .git segment.
func vcsPath(u *url.URL) bool {
	for _, seg := range strings.Split(strings.Trim(u.Path, "/"), "/") {
		if seg == ".git" {
			return true
		}
	}
	return false
}
