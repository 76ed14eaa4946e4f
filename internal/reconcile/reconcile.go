// Package reconcile applies the effects of confirmed remote mutations to
// every local structure that holds the record: the normalized object cache
// and the in-memory lists of all four page accumulators. A mutation the
// API confirmed fans out to both places; skipping either leaves a stale
// row on screen or lets a later cache-first read resurrect old data.
//
// Every operation is a fire-and-forget patch called only after the
// transport reports success. Patching an id that is no longer present
// anywhere is a silent no-op: a racing delete may already have evicted it.
package reconcile

import (
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/repocache"
	"github.com/cameronsjo/gh-manager-cli/internal/source"
)

// Reconciler fans mutation outcomes out to the cache and the accumulators.
type Reconciler struct {
	cache   *repocache.Cache
	sources *source.Set
}

// New creates a reconciler over the shared cache and accumulator set.
func New(cache *repocache.Cache, sources *source.Set) *Reconciler {
	return &Reconciler{cache: cache, sources: sources}
}

// patchAll applies mutate to the cached record and to a fresh copy of
// every list entry holding the id. List elements are replaced, never
// mutated in place, so identity-based renderers pick up the change.
func (r *Reconciler) patchAll(id string, mutate func(*model.Repo)) {
	r.cache.Patch(id, mutate)
	for _, acc := range r.sources.All() {
		for _, item := range acc.Items() {
			if item.ID == id {
				patched := item.Clone()
				mutate(patched)
				acc.ReplaceByID(id, patched)
				break
			}
		}
	}
}

// AfterDelete removes the record everywhere: evicted from the cache,
// garbage collected, and dropped from every accumulated list with that
// source's total count decremented.
func (r *Reconciler) AfterDelete(id string) {
	r.cache.Evict(id)
	r.cache.GC()
	for _, acc := range r.sources.All() {
		acc.RemoveByID(id)
	}
}

// AfterArchiveToggle records the confirmed archived state.
func (r *Reconciler) AfterArchiveToggle(id string, archived bool) {
	r.patchAll(id, func(repo *model.Repo) {
		repo.IsArchived = archived
	})
}

// AfterVisibilityChange records the confirmed visibility and the derived
// private flag. A list whose active visibility filter now excludes the
// record drops it and decrements its total count; all others patch in
// place.
func (r *Reconciler) AfterVisibilityChange(id string, visibility model.Visibility) {
	mutate := func(repo *model.Repo) {
		repo.Visibility = visibility
		repo.IsPrivate = visibility != model.VisibilityPublic
	}
	r.cache.Patch(id, mutate)

	for _, acc := range r.sources.All() {
		for _, item := range acc.Items() {
			if item.ID != id {
				continue
			}
			if !acc.Spec().Visibility.Matches(string(visibility)) {
				acc.RemoveByID(id)
			} else {
				patched := item.Clone()
				mutate(patched)
				acc.ReplaceByID(id, patched)
			}
			break
		}
	}
}

// AfterRename records the confirmed new names. Nothing else changes.
func (r *Reconciler) AfterRename(id, name, nameWithOwner string) {
	r.patchAll(id, func(repo *model.Repo) {
		repo.Name = name
		repo.NameWithOwner = nameWithOwner
	})
}

// AfterStarToggle records the confirmed star state and adjusts the
// counter by delta. An unstarred repo cannot remain in the starred view,
// so that list drops it; every other list patches in place.
func (r *Reconciler) AfterStarToggle(id string, starred bool, delta int) {
	mutate := func(repo *model.Repo) {
		repo.ViewerHasStarred = starred
		repo.StargazerCount += delta
		if repo.StargazerCount < 0 {
			repo.StargazerCount = 0
		}
	}
	r.cache.Patch(id, mutate)

	for _, acc := range r.sources.All() {
		if acc.Source() == query.SourceStarred && !starred {
			acc.RemoveByID(id)
			continue
		}
		for _, item := range acc.Items() {
			if item.ID == id {
				patched := item.Clone()
				mutate(patched)
				acc.ReplaceByID(id, patched)
				break
			}
		}
	}
}

// AfterForkSync records the confirmed sync time. When fork tracking is on
// and the parent's commit count was captured at fetch time, the fork is
// now even with the parent, so the behind-count resets to zero locally
// instead of refetching.
func (r *Reconciler) AfterForkSync(id string, updatedAt time.Time, trackingEnabled bool) {
	r.patchAll(id, func(repo *model.Repo) {
		repo.UpdatedAt = updatedAt
		if trackingEnabled && repo.Parent != nil && repo.Parent.HasTotalCommits {
			repo.CommitsBehind = 0
			repo.HasCommitsBehind = true
		}
	})
}
