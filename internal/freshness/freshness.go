// Package freshness tracks when each query last completed a successful
// first-page fetch, stored in ~/.ghm/freshness.json.
// A query whose record is younger than its TTL may be served from the
// normalized cache; anything else goes to the network.
package freshness

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/storage"
)

// Default TTLs. Browse-style listings tolerate long reuse; search indices
// move faster and staleness is immediately visible, so search gets a much
// shorter window. Both are configurable, these are only the fallbacks.
const (
	DefaultListTTL   = 30 * time.Minute
	DefaultSearchTTL = 90 * time.Second
)

// Store is a persisted key -> last-fetched-at map. Safe for concurrent use:
// one store is shared by every accumulator and their fetches run in
// separate goroutines.
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]time.Time
	now     func() time.Time
}

// Path returns the freshness store file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "freshness.json")
}

// Load reads the store from path. A missing or corrupt file starts empty:
// wrongly answering "fresh" would serve stale or missing data, wrongly
// answering "stale" only costs one fetch.
func Load(path string) *Store {
	s := &Store{
		path:    path,
		entries: make(map[string]time.Time),
		now:     time.Now,
	}

	var entries map[string]time.Time
	if err := storage.LoadJSON(path, &entries); err != nil {
		if !os.IsNotExist(err) {
			// Corrupted - start fresh
			return s
		}
		return s
	}
	if entries != nil {
		s.entries = entries
	}
	return s
}

// WithClock overrides the time source. Tests use this to advance time
// past a TTL without sleeping.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// IsFresh reports whether key was fetched within ttl. Unknown keys are
// never fresh.
func (s *Store) IsFresh(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fetchedAt, ok := s.entries[key]
	if !ok || fetchedAt.IsZero() {
		return false
	}
	return s.now().Sub(fetchedAt) <= ttl
}

// MarkFetched records a successful first-page fetch for key and persists
// the store. The persistence error is returned so the caller can log it;
// the in-memory record is updated regardless, so a failed save never
// poisons the current session. The save runs under the lock so two
// fetches never race on the temp file.
func (s *Store) MarkFetched(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = s.now()
	return storage.SaveJSON(s.path, s.entries)
}

// Clear drops every record and persists the empty store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]time.Time)
	return storage.SaveJSON(s.path, s.entries)
}

// Len returns the number of recorded keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
