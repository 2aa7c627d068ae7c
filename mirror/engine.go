// Package mirror implements the site-mirroring engine: URL scoping and
// normalization, the URL→path mapping, link rewriting for offline
// browsing, depth-first traversal with cycle avoidance and a politeness
// delay, and cooperative cancellation.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/mirrorkit/mirrorkit/fetch"
)

// Options is the immutable configuration for one run.
type Options struct {
	// MaxDepth bounds the crawl; the seed is at depth 0.
	MaxDepth int

	// Delay is the politeness pause after each page.
	Delay time.Duration

	// Resource toggles. A disabled class is neither downloaded nor
	// rewritten into the mirror.
	Images bool
	CSS    bool
	JS     bool
}

// Result summarizes a finished run. Visited counts every URL dispatched,
// pages and resources alike. Stopped distinguishes a user-initiated stop
// from a site where nothing was reachable: hosts report a count of zero
// for stopped runs, but can still see how far the crawl got.
type Result struct {
	Visited int
	Stopped bool
}

// Artifact is the outcome of persisting one fetched resource.
type Artifact struct {
	Path      string
	Rewritten bool
}

// Engine performs one depth-first mirror crawl. It is owned by a single
// worker goroutine for the lifetime of the run; the visited set and the
// mirror root are never touched from anywhere else, so neither needs
// synchronization.
type Engine struct {
	seed     *url.URL
	root     string
	opts     Options
	client   *fetch.Client
	visited  map[string]struct{}
	progress func(format string, args ...any)
}

// NewEngine prepares a crawl of seed into the mirror root directory.
func NewEngine(client *fetch.Client, seed *url.URL, root string, opts Options) *Engine {
	return &Engine{
		seed:    seed,
		root:    root,
		opts:    opts,
		client:  client,
		visited: make(map[string]struct{}),
	}
}

// OnProgress installs the sink for human-readable progress lines.
func (e *Engine) OnProgress(fn func(format string, args ...any)) {
	e.progress = fn
}

// Mirror runs the crawl to completion. The error return is reserved for
// run-level faults: inability to create the mirror root or to write into
// it. Per-URL fetch and parse problems are reported as progress lines
// and only abandon their own branch.
func (e *Engine) Mirror(ctx context.Context) (Result, error) {
	if err := os.MkdirAll(e.root, 0o755); err != nil {
		return Result{}, fmt.Errorf("mirror: create mirror root: %w", err)
	}
	err := e.crawlPage(ctx, e.seed.String(), 0)
	return Result{Visited: len(e.visited), Stopped: ctx.Err() != nil}, err
}

// crawlPage processes one URL at the given depth and recurses into its
// in-scope anchors in document order.
func (e *Engine) crawlPage(ctx context.Context, raw string, depth int) error {
	if ctx.Err() != nil {
		return nil
	}

	norm := Normalize(raw)
	if _, ok := e.visited[norm]; ok {
		return nil
	}
	// Depth is checked before marking visited: the same URL reached
	// later on a shorter path may still be processed.
	if depth > e.opts.MaxDepth {
		return nil
	}
	u, err := url.Parse(norm)
	if err != nil {
		e.emit("✗ Dropping malformed URL %s: %v", norm, err)
		return nil
	}
	if vcsPath(u) {
		return nil
	}

	e.visited[norm] = struct{}{}
	e.emit("Mirroring: %s", norm)

	resp, err := e.client.Get(ctx, norm)
	if err != nil {
		if errors.Is(err, fetch.ErrTooManyRedirects) {
			e.emit("✗ Too many redirects: %s (possible redirect loop)", norm)
		} else {
			e.emit("✗ Error: %s - %v", norm, err)
		}
		return nil
	}

	kind := Classify(resp.ContentType(), resp.Body)
	if kind == KindFeed {
		e.emit("ℹ Detected feed/XML content: %s", norm)
	}

	art, err := e.save(u, resp.Body, kind)
	if err != nil {
		return err
	}
	if art != nil {
		e.emit("✓ Saved: %s", art.Path)
	}

	if kind == KindBinary {
		e.pause(ctx)
		return nil
	}

	refs, err := extractRefs(u, resp.Body)
	if err != nil {
		e.emit("⚠ Could not parse %s for links: %v", norm, err)
		e.pause(ctx)
		return nil
	}

	for _, link := range refs.anchors {
		if ctx.Err() != nil {
			return nil
		}
		if !InScope(link, e.seed) {
			continue
		}
		next := Normalize(link.String())
		if _, ok := e.visited[next]; ok {
			continue
		}
		if err := e.crawlPage(ctx, next, depth+1); err != nil {
			return err
		}
	}

	if e.opts.Images {
		if err := e.fetchResources(ctx, refs.images); err != nil {
			return err
		}
	}
	if e.opts.CSS {
		if err := e.fetchResources(ctx, refs.styles); err != nil {
			return err
		}
	}
	if e.opts.JS {
		if err := e.fetchResources(ctx, refs.scripts); err != nil {
			return err
		}
	}

	e.pause(ctx)
	return nil
}

// fetchResources downloads in-scope page resources. Resources are
// leaves: written byte for byte and never scanned for further links.
func (e *Engine) fetchResources(ctx context.Context, urls []*url.URL) error {
	for _, u := range urls {
		if ctx.Err() != nil {
			return nil
		}
		if !InScope(u, e.seed) {
			continue
		}
		norm := Normalize(u.String())
		if _, ok := e.visited[norm]; ok {
			continue
		}
		parsed, err := url.Parse(norm)
		if err != nil || vcsPath(parsed) {
			continue
		}
		e.visited[norm] = struct{}{}

		resp, err := e.client.Get(ctx, norm)
		if err != nil {
			if errors.Is(err, fetch.ErrTooManyRedirects) {
				e.emit("✗ Too many redirects for resource: %s", norm)
			} else {
				e.emit("✗ Resource error: %s - %v", norm, err)
			}
			continue
		}
		if _, err := e.save(parsed, resp.Body, KindBinary); err != nil {
			return err
		}
	}
	return nil
}

// save maps the URL into the mirror tree and writes the content,
// applying link rewriting first for markup and feeds. A rewrite failure
// is not fatal: the original bytes are persisted, since a broken mirror
// page is more useful than no page. Write failures are fatal.
func (e *Engine) save(u *url.URL, body []byte, kind Kind) (*Artifact, error) {
	if vcsPath(u) {
		return nil, nil
	}

	rewritten := false
	if kind == KindMarkup || kind == KindFeed {
		out, err := Rewrite(u, e.seed, body, e.opts)
		if err != nil {
			e.emit("⚠ Could not rewrite links in %s: %v", u, err)
		} else {
			body = out
			rewritten = true
		}
	}

	dst := filepath.Join(e.root, filepath.FromSlash(ToPath(u)))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return nil, fmt.Errorf("mirror: create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, body, 0o644); err != nil {
		return nil, fmt.Errorf("mirror: write %s: %w", dst, err)
	}
	return &Artifact{Path: dst, Rewritten: rewritten}, nil
}

// pause applies the inter-request delay. It returns early on
// cancellation so a stop request never waits out the throttle.
func (e *Engine) pause(ctx context.Context) {
	if e.opts.Delay <= 0 {
		return
	}
	t := time.NewTimer(e.opts.Delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (e *Engine) emit(format string, args ...any) {
	if e.progress != nil {
		e.progress(format, args...)
	}
}
