// Package source accumulates cursor-paginated repository pages, one
// accumulator per data source. Pages append to an ordered list that keeps
// server order; the list resets only on a parameter change, a manual
// refresh, or a restart at page one. The freshness store decides whether
// a first page may be served cache-first or must hit the network.
package source

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/freshness"
	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/repocache"
)

// FetchPolicy tells the transport whether a cached response is acceptable.
type FetchPolicy string

const (
	PolicyCacheFirst  FetchPolicy = "cache-first"
	PolicyNetworkOnly FetchPolicy = "network-only"
)

// RateLimit is the API quota snapshot returned with every page.
type RateLimit struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

// Page is one page of results from the transport.
type Page struct {
	Nodes       []*model.Repo
	EndCursor   string
	HasNextPage bool
	TotalCount  int
	RateLimit   RateLimit
}

// Transport retrieves pages from the remote API. Implementations own
// retry, timeout, and authentication policy; the accumulator owns none
// of those.
type Transport interface {
	FetchPage(ctx context.Context, spec query.Spec, cursor string, policy FetchPolicy) (*Page, error)
}

// ErrFetchInFlight is returned when a fetch is requested for a source
// that already has one running. Callers debounce on the Loading flag;
// this error is the backstop.
var ErrFetchInFlight = errors.New("fetch already in flight for this source")

// ErrSuperseded is returned when a fetch completed after its accumulator
// was reset or repointed at a different query. The late result is
// discarded so it cannot overwrite fresher state.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// Accumulator holds the paginated state for one source.
type Accumulator struct {
	mu sync.Mutex

	source    query.Source
	transport Transport
	fresh     *freshness.Store
	cache     *repocache.Cache
	listTTL   time.Duration
	searchTTL time.Duration

	spec        query.Spec
	specKey     string
	items       []*model.Repo
	endCursor   string
	hasNextPage bool
	totalCount  int
	loading     bool
	generation  uint64
	rateLimit   RateLimit
}

// New creates an accumulator for one source.
func New(src query.Source, transport Transport, fresh *freshness.Store, cache *repocache.Cache, listTTL, searchTTL time.Duration) *Accumulator {
	if listTTL <= 0 {
		listTTL = freshness.DefaultListTTL
	}
	if searchTTL <= 0 {
		searchTTL = freshness.DefaultSearchTTL
	}
	return &Accumulator{
		source:    src,
		transport: transport,
		fresh:     fresh,
		cache:     cache,
		listTTL:   listTTL,
		searchTTL: searchTTL,
	}
}

// Source returns the data source this accumulator serves.
func (a *Accumulator) Source() query.Source { return a.source }

// SetSpec points the accumulator at a query. Changing any result-affecting
// parameter resets the accumulated state and supersedes any in-flight
// fetch; re-applying an identical spec keeps the state so switching back
// to a source does not force a refetch.
func (a *Accumulator) SetSpec(spec query.Spec) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := spec.FreshnessKey()
	if key == a.specKey {
		return
	}
	a.spec = spec
	a.specKey = key
	a.resetLocked()
}

// Reset clears the accumulated list and supersedes any in-flight fetch.
func (a *Accumulator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

func (a *Accumulator) resetLocked() {
	a.items = nil
	a.endCursor = ""
	a.hasNextPage = false
	a.totalCount = 0
	a.loading = false
	a.generation++
}

// ttl returns the freshness TTL for the active query.
func (a *Accumulator) ttl() time.Duration {
	if a.spec.Source == query.SourceSearch {
		return a.searchTTL
	}
	return a.listTTL
}

// FetchFirst fetches page one. The cache policy is resolved from the
// freshness store unless force is set (explicit refresh and post-mutation
// fetches always bypass the cache). On success the accumulated list is
// replaced with the new page and the fetch is recorded as fresh; on
// failure the previous state is left untouched.
func (a *Accumulator) FetchFirst(ctx context.Context, force bool) error {
	a.mu.Lock()
	if a.loading {
		a.mu.Unlock()
		return ErrFetchInFlight
	}
	a.loading = true
	gen := a.generation
	spec := a.spec
	key := a.specKey
	ttl := a.ttl()
	a.mu.Unlock()

	policy := PolicyNetworkOnly
	if !force && a.fresh.IsFresh(key, ttl) {
		policy = PolicyCacheFirst
	}

	page, err := a.transport.FetchPage(ctx, spec, "", policy)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return ErrSuperseded
	}
	a.loading = false
	if err != nil {
		return err
	}

	a.items = append([]*model.Repo(nil), page.Nodes...)
	a.applyPageLocked(page)

	// Only a network fetch refreshes the key; re-marking on a cache hit
	// would let an entry stay "fresh" forever.
	if policy == PolicyNetworkOnly {
		// A failed save costs at most one extra fetch later.
		_ = a.fresh.MarkFetched(key)
	}
	return nil
}

// FetchNext appends the next page using the stored end cursor. Rejected
// when no fetch cursor is available or one is already in flight.
func (a *Accumulator) FetchNext(ctx context.Context) error {
	a.mu.Lock()
	if a.loading {
		a.mu.Unlock()
		return ErrFetchInFlight
	}
	if !a.hasNextPage || a.endCursor == "" {
		a.mu.Unlock()
		return nil
	}
	a.loading = true
	gen := a.generation
	spec := a.spec
	cursor := a.endCursor
	a.mu.Unlock()

	page, err := a.transport.FetchPage(ctx, spec, cursor, PolicyNetworkOnly)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return ErrSuperseded
	}
	a.loading = false
	if err != nil {
		return err
	}

	a.items = append(a.items, page.Nodes...)
	a.applyPageLocked(page)
	return nil
}

// applyPageLocked records page metadata and normalizes every node into
// the object cache. Requires a.mu held.
func (a *Accumulator) applyPageLocked(page *Page) {
	a.endCursor = page.EndCursor
	a.hasNextPage = page.HasNextPage
	a.totalCount = page.TotalCount
	a.rateLimit = page.RateLimit
	if a.cache != nil {
		for _, r := range page.Nodes {
			a.cache.Write(r)
		}
	}
}

// Items returns the accumulated list. The returned slice is shared; the
// reconciler is the only writer and replaces elements, never mutates them.
func (a *Accumulator) Items() []*model.Repo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.items
}

// Len returns the number of accumulated items.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.items)
}

// TotalCount returns the server-reported total for the active query.
func (a *Accumulator) TotalCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totalCount
}

// HasNextPage reports whether more pages are available.
func (a *Accumulator) HasNextPage() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.hasNextPage
}

// Loading reports whether a fetch is in flight.
func (a *Accumulator) Loading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loading
}

// RateLimit returns the quota snapshot from the most recent page.
func (a *Accumulator) RateLimit() RateLimit {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rateLimit
}

// Spec returns the active query specification.
func (a *Accumulator) Spec() query.Spec {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spec
}

// RemoveByID deletes the record from the list and decrements the total
// count. Returns true when the id was present.
func (a *Accumulator) RemoveByID(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, r := range a.items {
		if r.ID == id {
			a.items = append(a.items[:i], a.items[i+1:]...)
			if a.totalCount > 0 {
				a.totalCount--
			}
			return true
		}
	}
	return false
}

// ReplaceByID swaps the stored record for id with repl. The element is
// replaced rather than mutated so identity-based renderers see the change.
// Returns true when the id was present.
func (a *Accumulator) ReplaceByID(id string, repl *model.Repo) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, r := range a.items {
		if r.ID == id {
			a.items[i] = repl
			return true
		}
	}
	return false
}

// Set bundles the four independent accumulators. Never more than one is
// displayed at a time, but each retains its state so switching sources
// reuses still-fresh data.
type Set struct {
	accs map[query.Source]*Accumulator
}

// NewSet builds one accumulator per source against shared collaborators.
func NewSet(transport Transport, fresh *freshness.Store, cache *repocache.Cache, listTTL, searchTTL time.Duration) *Set {
	s := &Set{accs: make(map[query.Source]*Accumulator, len(query.Sources))}
	for _, src := range query.Sources {
		s.accs[src] = New(src, transport, fresh, cache, listTTL, searchTTL)
	}
	return s
}

// For returns the accumulator for a source.
func (s *Set) For(src query.Source) *Accumulator {
	return s.accs[src]
}

// All returns every accumulator. Order is unspecified.
func (s *Set) All() []*Accumulator {
	out := make([]*Accumulator, 0, len(s.accs))
	for _, a := range s.accs {
		out = append(out, a)
	}
	return out
}
