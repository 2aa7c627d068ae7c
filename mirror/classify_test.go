package mirror

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        Kind
	}{
		{"declared rss", "application/rss+xml", `<rss version="2.0"></rss>`, KindFeed},
		{"declared xml", "text/xml; charset=utf-8", `<?xml version="1.0"?><note/>`, KindFeed},
		{"declared atom", "application/atom+xml", `<feed></feed>`, KindFeed},
		{"mislabeled sitemap", "text/html", `<?xml version="1.0"?><urlset></urlset>`, KindFeed},
		{"rss body under html header", "text/html", `  <rss version="2.0"><channel/></rss>`, KindFeed},
		{"svg body", "", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`, KindFeed},
		{"plain html", "text/html; charset=utf-8", `<!doctype html><html><body>hi</body></html>`, KindMarkup},
		{"png", "image/png", "\x89PNG\r\n", KindBinary},
		{"unknown type plain body", "", "hello world", KindBinary},
		{"css", "text/css", "body { color: red }", KindBinary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.contentType, []byte(tt.body))
			if got != tt.want {
				t.Errorf("Classify(%q, ...) = %v, want %v", tt.contentType, got, tt.want)
			}
		})
	}
}

func TestClassify_SniffWindowBounded(t *testing.T) {
	// A feed marker past the sniff window must not flip an HTML page
	// into a feed.
	body := strings.Repeat("<p>padding</p>", 30) + `<rss version="2.0">`
	if got := Classify("text/html", []byte(body)); got != KindMarkup {
		t.Errorf("marker beyond sniff window classified as %v, want %v", got, KindMarkup)
	}
}

func TestKind_String(t *testing.T) {
	if KindMarkup.String() != "markup" || KindFeed.String() != "feed" || KindBinary.String() != "binary" {
		t.Errorf("unexpected Kind strings: %v %v %v", KindMarkup, KindFeed, KindBinary)
	}
}
