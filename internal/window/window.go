// Package window computes the visible slice of a large repository list so
// the browser never materializes more than one screen of rows, and decides
// when to prefetch the next page.
package window

// Window is the half-open index range [Start, End) of the item list that
// must currently be rendered.
type Window struct {
	Start int
	End   int
}

// Len returns the number of rows in the window.
func (w Window) Len() int { return w.End - w.Start }

// Contains reports whether cursor falls inside the window.
func (w Window) Contains(cursor int) bool {
	return w.Start <= cursor && cursor < w.End
}

// hysteresisThreshold is the cursor delta below which a still-valid
// previous window is reused instead of recomputed.
const hysteresisThreshold = 3

// Calculator owns the hysteresis state. lastCursor and lastWindow are
// updated only when the window is actually recomputed.
type Calculator struct {
	lastCursor int
	lastWindow Window
	hasLast    bool
}

// Compute returns the window around cursor for the current list size and
// display geometry. Small cursor movements that stay inside the previous
// window return it unchanged; reuse is skipped whenever it would leave the
// cursor outside the window or the window outside the list.
func (c *Calculator) Compute(cursor, itemCount, itemHeight, containerHeight, overscan int) Window {
	if c.hasLast && itemCount > 0 {
		delta := cursor - c.lastCursor
		if delta < 0 {
			delta = -delta
		}
		if delta < hysteresisThreshold && c.lastWindow.Contains(cursor) && c.lastWindow.End <= itemCount {
			return c.lastWindow
		}
	}

	w := Compute(cursor, itemCount, itemHeight, containerHeight, overscan)
	c.lastCursor = cursor
	c.lastWindow = w
	c.hasLast = true
	return w
}

// Reset forgets the previous window. Call when the underlying list is
// replaced (source switch, refresh) so stale geometry is never reused.
func (c *Calculator) Reset() {
	c.hasLast = false
}

// Compute is the stateless window calculation. The caller must clamp
// cursor into [0, itemCount) beforehand; only the window is clamped here.
func Compute(cursor, itemCount, itemHeight, containerHeight, overscan int) Window {
	if itemCount == 0 {
		return Window{}
	}

	visible := containerHeight / itemHeight
	if visible < 1 {
		visible = 1
	}
	if visible >= itemCount {
		return Window{Start: 0, End: itemCount}
	}

	half := visible / 2
	start := cursor - half - overscan
	if max := itemCount - visible; start > max {
		start = max
	}
	if start < 0 {
		start = 0
	}

	end := start + visible + 2*overscan
	if end > itemCount {
		end = itemCount
	}

	return Window{Start: start, End: end}
}

// ShouldPrefetch reports whether the cursor has crossed the prefetch
// threshold of the loaded list. Stateless: the caller guards against
// duplicate fetches with the loading flag it passes in.
func ShouldPrefetch(cursor, loadedCount int, hasNextPage, loading bool, thresholdRatio float64) bool {
	if !hasNextPage || loading || loadedCount <= 0 {
		return false
	}
	return cursor >= int(float64(loadedCount)*thresholdRatio)
}
