// Package ui implements the interactive repository browser.
//
// The browser is a single Bubble Tea model over the shared accumulator
// set: one source (personal, organization, search, starred) is displayed
// at a time, scrolling is windowed so huge lists render cheaply, and the
// next page is prefetched in the background as the cursor approaches the
// end of the loaded list.
//
// Mutations (delete, archive, visibility, rename, star, fork sync) are
// applied through the gh transport and, once confirmed, fanned out to
// the cache and every list by the reconciler. The UI never mutates a
// repository record directly.
package ui
