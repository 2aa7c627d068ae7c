package mirror

import "strings"

// Kind is the handling class of a fetched resource.
type Kind int

const (
	// KindBinary content is written byte for byte, untransformed.
	KindBinary Kind = iota
	// KindMarkup content gets link extraction and rewriting.
	KindMarkup
	// KindFeed is XML-family content (RSS, Atom, sitemap, SVG). It gets
	// link extraction and, through the HTML-parser fallback, rewriting.
	KindFeed
)

func (k Kind) String() string {
	switch k {
	case KindMarkup:
		return "markup"
	case KindFeed:
		return "feed"
	default:
		return "binary"
	}
}

// sniffLen is how much of the body prefix is inspected for feed markers.
const sniffLen = 200

var feedRoots = []string{"<rss", "<feed", "<urlset", "<svg"}

// Classify decides how a fetched resource is handled. The body prefix is
// sniffed even when the header claims HTML, because feed and sitemap
// endpoints routinely mislabel their content-type.
//
// The rule order is fixed: declared XML/RSS type, then prefix sniff,
// then declared HTML, then binary.
func Classify(contentType string, body []byte) Kind {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "xml") || strings.Contains(ct, "application/rss") {
		return KindFeed
	}
	if sniffFeed(body) {
		return KindFeed
	}
	if strings.Contains(ct, "html") {
		return KindMarkup
	}
	return KindBinary
}

// sniffFeed looks at the first sniffLen bytes, decoded permissively, for
// an XML declaration or a known feed root tag.
func sniffFeed(body []byte) bool {
	if len(body) > sniffLen {
		body = body[:sniffLen]
	}
	text := strings.ToLower(string(body))
	if strings.HasPrefix(strings.TrimSpace(text), "<?xml") {
		return true
	}
	for _, root := range feedRoots {
		if strings.Contains(text, root) {
			return true
		}
	}
	return false
}
