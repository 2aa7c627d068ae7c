package mirror

import (
	"net/url"
	"path"
	"strings"
)

// Normalize canonicalizes a URL so the same resource is never visited
// twice under different spellings. Fragments are dropped, and
// directory-looking paths (no extension in the final segment) gain a
// trailing slash so /docs and /docs/ collapse into one target. Without
// this, a server that redirects one form to the other drives an
// unbounded re-crawl.
//
// Normalize is idempotent.
func Normalize(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path == "" || u.Path == "/" {
		return raw
	}
	if !strings.Contains(path.Base(u.Path), ".") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
		return u.String()
	}
	return raw
}
