// Package history persists the seed URLs of past mirror runs so hosts
// can offer them for re-runs.
package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// record is one history line on disk.
type record struct {
	URL  string    `json:"url"`
	Time time.Time `json:"time"`
}

// Store is a file-backed, append-only history of seed URLs, one JSON
// line per entry. It is safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore returns a store over the given file. The file is created
// lazily on first append.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Append records url as the most recent entry. Duplicates are kept on
// disk; Recent deduplicates on read so ordering stays append-only.
func (s *Store) Append(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("history: open %s: %w", s.path, err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record{URL: url, Time: time.Now()}); err != nil {
		return fmt.Errorf("history: append: %w", err)
	}
	return nil
}

// Recent returns the unique URLs in the history, most recent first.
// A missing history file is an empty history, not an error.
func (s *Store) Recent() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", s.path, err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec record
		// Corrupt lines are skipped, not fatal.
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil || rec.URL == "" {
			continue
		}
		urls = append(urls, rec.URL)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("history: read %s: %w", s.path, err)
	}

	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for i := len(urls) - 1; i >= 0; i-- {
		if _, ok := seen[urls[i]]; ok {
			continue
		}
		seen[urls[i]] = struct{}{}
		unique = append(unique, urls[i])
	}
	return unique, nil
}

// Clear removes all history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}
