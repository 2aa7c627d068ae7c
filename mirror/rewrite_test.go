package mirror

import (
	"strings"
	"testing"
)

var allResources = Options{Images: true, CSS: true, JS: true}

func TestRewrite_InScopeReferences(t *testing.T) {
	src := mustParse(t, "https://example.com/a/b/")
	seed := mustParse(t, "https://example.com/")
	page := `<html><head>
<link rel="stylesheet" href="/css/site.css">
<script src="https://example.com/js/app.js"></script>
</head><body>
<a href="https://example.com/a/c">next</a>
<a href="../d">up</a>
<img src="/img/logo.png">
</body></html>`

	out, err := Rewrite(src, seed, []byte(page), allResources)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	html := string(out)

	wants := []string{
		`href="../../css/site.css"`,
		`src="../../js/app.js"`,
		`href="../c/index.html"`,
		`href="../d/index.html"`,
		`src="../../img/logo.png"`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("rewritten page missing %s\n%s", want, html)
		}
	}
}

func TestRewrite_LeavesUntouched(t *testing.T) {
	src := mustParse(t, "https://example.com/")
	seed := mustParse(t, "https://example.com/")
	page := `<html><body>
<a href="https://other.com/x">external</a>
<a href="#top">fragment</a>
<a href="javascript:void(0)">script link</a>
<a href="/.git/config">vcs</a>
<a href="">empty</a>
</body></html>`

	out, err := Rewrite(src, seed, []byte(page), allResources)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	html := string(out)

	wants := []string{
		`href="https://other.com/x"`,
		`href="#top"`,
		`href="javascript:void(0)"`,
		`href="/.git/config"`,
	}
	for _, want := range wants {
		if !strings.Contains(html, want) {
			t.Errorf("reference was rewritten but should be untouched: %s\n%s", want, html)
		}
	}
}

func TestRewrite_DisabledClassesKeepOriginalReferences(t *testing.T) {
	src := mustParse(t, "https://example.com/")
	seed := mustParse(t, "https://example.com/")
	page := `<html><head>
<link rel="stylesheet" href="/css/site.css">
<script src="/js/app.js"></script>
</head><body>
<a href="/about">about</a>
<img src="/img/logo.png">
</body></html>`

	out, err := Rewrite(src, seed, []byte(page), Options{})
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	html := string(out)

	// Anchors are always rewritten; disabled resource classes stay as
	// served, since their files never reach the mirror.
	if !strings.Contains(html, `href="about/index.html"`) {
		t.Errorf("anchor not rewritten:\n%s", html)
	}
	for _, want := range []string{`src="/img/logo.png"`, `href="/css/site.css"`, `src="/js/app.js"`} {
		if !strings.Contains(html, want) {
			t.Errorf("disabled resource reference was rewritten: want %s untouched\n%s", want, html)
		}
	}
}

func TestExtractRefs(t *testing.T) {
	src := mustParse(t, "https://example.com/blog/")
	page := `<html><head>
<link rel="stylesheet" href="/css/site.css">
<link rel="icon" href="/favicon.ico">
<script src="app.js"></script>
</head><body>
<a href="/about">a</a>
<a href="post-1">b</a>
<a href="#top">skip</a>
<a href="javascript:void(0)">skip</a>
<a href="/.git/config">skip</a>
<img src="/img/one.png">
<img src="two.png">
</body></html>`

	refs, err := extractRefs(src, []byte(page))
	if err != nil {
		t.Fatalf("extractRefs: %v", err)
	}

	wantAnchors := []string{"https://example.com/about", "https://example.com/blog/post-1"}
	if len(refs.anchors) != len(wantAnchors) {
		t.Fatalf("got %d anchors, want %d: %v", len(refs.anchors), len(wantAnchors), refs.anchors)
	}
	for i, want := range wantAnchors {
		if refs.anchors[i].String() != want {
			t.Errorf("anchor[%d] = %q, want %q", i, refs.anchors[i], want)
		}
	}

	if len(refs.images) != 2 {
		t.Errorf("got %d images, want 2: %v", len(refs.images), refs.images)
	}
	if len(refs.images) == 2 && refs.images[1].String() != "https://example.com/blog/two.png" {
		t.Errorf("relative image resolved to %q", refs.images[1])
	}

	// Only stylesheet links count as styles; the icon link does not.
	if len(refs.styles) != 1 || refs.styles[0].String() != "https://example.com/css/site.css" {
		t.Errorf("styles = %v, want just the stylesheet", refs.styles)
	}

	if len(refs.scripts) != 1 || refs.scripts[0].String() != "https://example.com/blog/app.js" {
		t.Errorf("scripts = %v, want the one script", refs.scripts)
	}
}
