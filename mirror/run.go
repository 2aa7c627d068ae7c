package mirror

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sync/atomic"

	"github.com/mirrorkit/mirrorkit/fetch"
)

// eventBuffer is the capacity of a run's progress channel. When the host
// falls behind, the oldest lines are dropped rather than stalling the
// crawl.
const eventBuffer = 256

// Run is a handle to a mirror crawl executing on its own worker
// goroutine. The host never blocks on network I/O: progress arrives on
// Events and the final outcome via Wait.
type Run struct {
	seed   string
	root   string
	cancel context.CancelFunc
	events chan string
	done   chan struct{}
	stop   atomic.Bool

	result Result
	err    error
}

// StartRun validates the seed, creates the mirror root, and launches the
// crawl worker. Root-creation failure is reported here, before any fetch
// is issued.
func StartRun(client *fetch.Client, seed, root string, opts Options) (*Run, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("mirror: invalid seed URL %q: %w", seed, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("mirror: seed URL %q must be absolute http(s)", seed)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mirror: create mirror root: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Run{
		seed:   seed,
		root:   root,
		cancel: cancel,
		events: make(chan string, eventBuffer),
		done:   make(chan struct{}),
	}

	eng := NewEngine(client, u, root, opts)
	eng.OnProgress(r.publish)

	go func() {
		r.publish("Starting mirror of %s", seed)
		res, err := eng.Mirror(ctx)
		if r.stop.Load() {
			res.Stopped = true
		}
		switch {
		case err != nil:
			r.publish("✗ Run failed: %v", err)
		case res.Stopped:
			r.publish("Mirroring stopped by user")
		default:
			r.publish("Mirroring complete! Total URLs visited: %d", res.Visited)
			r.publish("Output directory: %s", root)
		}
		r.result, r.err = res, err
		close(r.events)
		close(r.done)
	}()

	return r, nil
}

// Seed returns the seed URL the run was started with.
func (r *Run) Seed() string { return r.seed }

// Root returns the mirror root directory.
func (r *Run) Root() string { return r.root }

// RequestStop asks the worker to stop. Cancellation is cooperative: an
// in-flight fetch is allowed to finish before the flag is observed.
func (r *Run) RequestStop() {
	r.stop.Store(true)
	r.cancel()
}

// Events returns the run's progress lines. The channel is closed when
// the run finishes.
func (r *Run) Events() <-chan string { return r.events }

// Done is closed when the run has finished.
func (r *Run) Done() <-chan struct{} { return r.done }

// Finished reports whether the run has reached a terminal state.
func (r *Run) Finished() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the run finishes and returns its outcome.
func (r *Run) Wait() (Result, error) {
	<-r.done
	return r.result, r.err
}

// Outcome returns the final result. Only valid once Done is closed.
func (r *Run) Outcome() (Result, error) {
	return r.result, r.err
}

// publish formats a progress line and offers it on the events channel,
// dropping the oldest line when the buffer is full so a slow or absent
// consumer never blocks the crawl.
func (r *Run) publish(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	for {
		select {
		case r.events <- msg:
			return
		default:
		}
		select {
		case <-r.events:
		default:
		}
	}
}
