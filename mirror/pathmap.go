package mirror

import (
	"net/url"
	"path"
	"strings"
)

// ToPath maps a URL to the relative file path its content is stored
// under in the mirror root. URLs that look like directories (empty
// path, trailing slash, or an extensionless final segment) gain an
// implicit index.html so the mirror stays browsable from a file system.
//
// The mapping is deterministic but not injective: /docs and /docs/index
// both land on docs/index.html, and the later write wins.
func ToPath(u *url.URL) string {
	p := strings.Trim(u.Path, "/")
	if p == "" || !strings.Contains(path.Base(p), ".") {
		p = path.Join(p, "index.html")
	}
	return p
}

// RelativeLink computes the href that, embedded in the page stored for
// from, resolves to the file stored for to. Separators are always
// forward slashes: the result lands in markup, not in OS paths.
func RelativeLink(from, to *url.URL) string {
	return relPath(path.Dir(ToPath(from)), ToPath(to))
}

// relPath is a slash-only relative-path walk from a directory to a
// target file. filepath.Rel is unsuitable here because it speaks the
// host OS separator.
func relPath(fromDir, target string) string {
	var from []string
	if fromDir != "" && fromDir != "." {
		from = strings.Split(fromDir, "/")
	}
	to := strings.Split(target, "/")

	common := 0
	for common < len(from) && common < len(to) && from[common] == to[common] {
		common++
	}

	segs := make([]string, 0, len(from)-common+len(to)-common)
	for i := common; i < len(from); i++ {
		segs = append(segs, "..")
	}
	segs = append(segs, to[common:]...)
	return strings.Join(segs, "/")
}
