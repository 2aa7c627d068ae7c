// Package runstore is the in-memory registry of mirror runs, keyed by
// ID, with TTL eviction of finished runs.
package runstore

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/mirrorkit/mirrorkit/mirror"
)

// maxLogLines bounds the progress tail kept per run.
const maxLogLines = 200

// Entry tracks one mirror run and a bounded tail of its progress log.
type Entry struct {
	ID        string
	Seed      string
	Root      string
	Run       *mirror.Run
	CreatedAt time.Time

	mu  sync.Mutex
	log []string
}

// AppendLog records a progress line, discarding the oldest beyond
// maxLogLines.
func (e *Entry) AppendLog(line string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, line)
	if len(e.log) > maxLogLines {
		e.log = e.log[len(e.log)-maxLogLines:]
	}
}

// Log returns a copy of the retained progress tail.
func (e *Entry) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

// Store holds all in-flight and completed runs. It is safe for
// concurrent use.
type Store struct {
	mu  sync.Mutex
	m   map[string]*Entry
	ttl time.Duration
}

// New creates a Store. A background goroutine evicts finished runs
// older than ttl every 5 minutes.
func New(ttl time.Duration) *Store {
	s := &Store{
		m:   make(map[string]*Entry),
		ttl: ttl,
	}
	go s.cleanupLoop()
	return s
}

// NewID generates a short random hex run ID.
func NewID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return "run-" + hex.EncodeToString(b)
}

// Add registers a run entry.
func (s *Store) Add(e *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[e.ID] = e
}

// Get looks up a run by ID.
func (s *Store) Get(id string) (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[id]
	return e, ok
}

// Delete removes a run by ID.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
}

// Active counts runs that have not reached a terminal state.
func (s *Store) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.m {
		if e.Run != nil && !e.Run.Finished() {
			n++
		}
	}
	return n
}

// cleanupLoop evicts finished entries older than ttl. Running entries
// are never evicted, however old.
func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-s.ttl)
		s.mu.Lock()
		for id, e := range s.m {
			if e.Run != nil && e.Run.Finished() && e.CreatedAt.Before(cutoff) {
				delete(s.m, id)
			}
		}
		s.mu.Unlock()
	}
}
