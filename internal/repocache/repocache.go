// Package repocache provides the normalized repository cache stored in
// ~/.ghm/repos.json. Each repository is stored once, keyed by its stable
// node id, regardless of how many queries reference it. Local mutations
// patch records in place so a later cache-first read never resurrects
// pre-mutation data.
package repocache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/storage"
)

const (
	// DefaultMaxBytes caps the on-disk size. When a save would exceed it,
	// least-recently-written entries are dropped instead of failing.
	DefaultMaxBytes = 2 << 20

	// DefaultDebounce coalesces bursts of writes into one physical save.
	DefaultDebounce = 500 * time.Millisecond
)

// entry wraps a record with its last write time for size-cap eviction.
type entry struct {
	Record    *model.Repo `json:"record"`
	WrittenAt time.Time   `json:"written_at"`
}

type diskFormat struct {
	Entries map[string]*entry `json:"entries"`
}

// Cache is the normalized object cache. Persistence failures are reported
// through warnf and otherwise swallowed; the in-memory cache keeps working
// for the rest of the session.
type Cache struct {
	mu       sync.Mutex
	path     string
	entries  map[string]*entry
	maxBytes int
	debounce time.Duration
	timer    *time.Timer
	now      func() time.Time
	warnf    func(format string, args ...any)
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxBytes overrides the on-disk size cap.
func WithMaxBytes(n int) Option {
	return func(c *Cache) { c.maxBytes = n }
}

// WithDebounce overrides the save debounce interval. Zero disables
// debouncing: every write persists immediately (used by tests).
func WithDebounce(d time.Duration) Option {
	return func(c *Cache) { c.debounce = d }
}

// WithWarnf sets the sink for swallowed persistence errors.
func WithWarnf(f func(format string, args ...any)) Option {
	return func(c *Cache) { c.warnf = f }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// Path returns the repo cache file inside dir.
func Path(dir string) string {
	return filepath.Join(dir, "repos.json")
}

// Open loads the cache from path. A missing or corrupt file starts empty.
func Open(path string, opts ...Option) *Cache {
	c := &Cache{
		path:     path,
		entries:  make(map[string]*entry),
		maxBytes: DefaultMaxBytes,
		debounce: DefaultDebounce,
		now:      time.Now,
		warnf:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(c)
	}

	var disk diskFormat
	if err := storage.LoadJSON(path, &disk); err != nil {
		if !os.IsNotExist(err) {
			// Corrupted - start fresh
			return c
		}
		return c
	}
	for id, e := range disk.Entries {
		if e != nil && e.Record.Valid() && e.Record.ID == id {
			c.entries[id] = e
		}
	}
	return c
}

// Read returns a copy of the record for id, or nil if the id is absent or
// the stored data is missing required fields. Never performs network I/O.
func (c *Cache) Read(id string) *model.Repo {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || !e.Record.Valid() {
		return nil
	}
	return e.Record.Clone()
}

// Write upserts the full record.
func (c *Cache) Write(r *model.Repo) {
	if !r.Valid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[r.ID] = &entry{Record: r.Clone(), WrittenAt: c.now()}
	c.scheduleFlushLocked()
}

// Patch applies mutate to a copy of the record for id and stores the
// result. No-op when the id is absent: the record may have been evicted
// by a racing delete, which is not an error.
func (c *Cache) Patch(id string, mutate func(r *model.Repo)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[id]
	if !ok || !e.Record.Valid() {
		return
	}
	patched := e.Record.Clone()
	mutate(patched)
	c.entries[id] = &entry{Record: patched, WrittenAt: c.now()}
	c.scheduleFlushLocked()
}

// Evict removes the record for id.
func (c *Cache) Evict(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	c.scheduleFlushLocked()
}

// GC drops entries that no longer carry required fields. Evict plus GC is
// the delete path: the record goes away and nothing partially shaped is
// left behind to satisfy a future read.
func (c *Cache) GC() {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	for id, e := range c.entries {
		if !e.Record.Valid() {
			delete(c.entries, id)
			changed = true
		}
	}
	if changed {
		c.scheduleFlushLocked()
	}
}

// Len returns the number of cached records.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Flush persists immediately, cancelling any pending debounced save.
// Call on shutdown.
func (c *Cache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.persistLocked()
}

// scheduleFlushLocked arranges a debounced save. Requires c.mu held.
func (c *Cache) scheduleFlushLocked() {
	if c.debounce <= 0 {
		if err := c.persistLocked(); err != nil {
			c.warnf("repo cache save failed: %v", err)
		}
		return
	}
	if c.timer != nil {
		// A save is already pending; let it pick up this write too.
		return
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err := c.persistLocked(); err != nil {
			c.warnf("repo cache save failed: %v", err)
		}
	})
}

// persistLocked writes the cache to disk, evicting least-recently-written
// entries while the serialized form exceeds the size cap. Requires c.mu.
func (c *Cache) persistLocked() error {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	data, err := json.MarshalIndent(diskFormat{Entries: c.entries}, "", "  ")
	if err != nil {
		return err
	}
	for len(data) > c.maxBytes && len(c.entries) > 0 {
		c.evictOldestLocked()
		data, err = json.MarshalIndent(diskFormat{Entries: c.entries}, "", "  ")
		if err != nil {
			return err
		}
	}

	// The bytes measured against the cap are exactly what lands on disk.
	return storage.SaveBytes(c.path, data)
}

func (c *Cache) evictOldestLocked() {
	oldestID := ""
	var oldestAt time.Time
	for id, e := range c.entries {
		if oldestID == "" || e.WrittenAt.Before(oldestAt) {
			oldestID = id
			oldestAt = e.WrittenAt
		}
	}
	if oldestID != "" {
		delete(c.entries, oldestID)
	}
}
