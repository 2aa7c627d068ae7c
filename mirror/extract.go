package mirror

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// pageRefs holds the outbound references of one fetched page, resolved
// to absolute URLs, in document order of appearance.
type pageRefs struct {
	anchors []*url.URL
	images  []*url.URL
	styles  []*url.URL
	scripts []*url.URL
}

// extractRefs pulls anchor and resource references out of markup.
// Unresolvable, fragment-only, javascript: and version-control
// references are dropped here, so the engine only sees candidates worth
// scoping.
func extractRefs(src *url.URL, body []byte) (*pageRefs, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &pageRefs{
		anchors: collectRefs(doc, "a[href]", "href", src),
		images:  collectRefs(doc, "img[src]", "src", src),
		styles:  collectRefs(doc, `link[rel="stylesheet"][href]`, "href", src),
		scripts: collectRefs(doc, "script[src]", "src", src),
	}, nil
}

func collectRefs(doc *goquery.Document, selector, attr string, src *url.URL) []*url.URL {
	var out []*url.URL
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		ref, _ := s.Attr(attr)
		if ref == "" || vcsRef(ref) {
			return
		}
		if strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "javascript:") {
			return
		}
		resolved, err := src.Parse(ref)
		if err != nil {
			return
		}
		out = append(out, resolved)
	})
	return out
}
