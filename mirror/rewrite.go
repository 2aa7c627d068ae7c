package mirror

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// refTarget is an element/attribute pair that carries a reference.
type refTarget struct {
	sel  cascadia.Sel
	attr string
}

var (
	anchorTarget = refTarget{mustSel("a[href]"), "href"}
	imageTarget  = refTarget{mustSel("img[src]"), "src"}
	styleTarget  = refTarget{mustSel("link[href]"), "href"}
	scriptTarget = refTarget{mustSel("script[src]"), "src"}
)

func mustSel(s string) cascadia.Sel {
	sel, err := cascadia.Parse(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// Rewrite parses markup fetched from src and replaces every in-scope
// reference with a path-relative link into the mirror tree, so the
// saved page browses offline. Anchors are always rewritten; image,
// stylesheet and script references only when their download toggle is
// on, since a disabled class is never downloaded and a rewritten
// reference would point at nothing. Out-of-scope, fragment-only,
// javascript: and version-control references are left untouched.
//
// Feed/XML input goes through the same permissive HTML parser; tag
// structure survives well enough for attribute rewriting.
func Rewrite(src, seed *url.URL, body []byte, opts Options) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("mirror: parse %s: %w", src, err)
	}

	targets := []refTarget{anchorTarget}
	if opts.Images {
		targets = append(targets, imageTarget)
	}
	if opts.CSS {
		targets = append(targets, styleTarget)
	}
	if opts.JS {
		targets = append(targets, scriptTarget)
	}

	for _, target := range targets {
		for _, node := range cascadia.QueryAll(doc, target.sel) {
			rewriteAttr(node, target.attr, src, seed)
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("mirror: render %s: %w", src, err)
	}
	return buf.Bytes(), nil
}

func rewriteAttr(n *html.Node, attr string, src, seed *url.URL) {
	for i, a := range n.Attr {
		if a.Key != attr {
			continue
		}
		if replacement, ok := rewriteRef(a.Val, src, seed); ok {
			n.Attr[i].Val = replacement
		}
	}
}

// rewriteRef resolves one raw reference against the page URL and
// returns its relative replacement, or ok=false when the reference must
// stay as-is.
func rewriteRef(ref string, src, seed *url.URL) (string, bool) {
	if ref == "" || vcsRef(ref) {
		return "", false
	}
	if strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "javascript:") {
		return "", false
	}
	abs, err := src.Parse(ref)
	if err != nil {
		return "", false
	}
	if !InScope(abs, seed) {
		return "", false
	}
	return RelativeLink(src, abs), true
}
