package window

import "testing"

func TestCompute_EmptyList(t *testing.T) {
	t.Parallel()

	got := Compute(0, 0, 3, 30, 2)
	if got != (Window{}) {
		t.Errorf("Compute() = %+v, want {0 0}", got)
	}
}

func TestCompute_ListFitsOnScreen(t *testing.T) {
	t.Parallel()

	got := Compute(3, 5, 3, 30, 2)
	if got.Start != 0 || got.End != 5 {
		t.Errorf("Compute() = %+v, want {0 5}", got)
	}
}

func TestCompute_CursorCentered(t *testing.T) {
	t.Parallel()

	// 10 visible rows, overscan 2: window is 14 rows centered on the cursor.
	got := Compute(50, 100, 3, 30, 2)
	if got.Start != 43 || got.End != 57 {
		t.Errorf("Compute() = %+v, want {43 57}", got)
	}
	if !got.Contains(50) {
		t.Error("window must contain the cursor")
	}
}

func TestCompute_ClampsAtStart(t *testing.T) {
	t.Parallel()

	got := Compute(0, 100, 3, 30, 2)
	if got.Start != 0 {
		t.Errorf("Start = %d, want 0", got.Start)
	}
	if !got.Contains(0) {
		t.Error("window must contain the cursor")
	}
}

func TestCompute_ClampsAtEnd(t *testing.T) {
	t.Parallel()

	// Jump to the last of 10,000 rows: window recomputes near the end,
	// never the full list.
	got := Compute(9999, 10000, 3, 30, 2)
	if got.End != 10000 {
		t.Errorf("End = %d, want 10000", got.End)
	}
	if !got.Contains(9999) {
		t.Error("window must contain the cursor")
	}
	if got.Len() > 14 {
		t.Errorf("window spans %d rows, want at most visible+2*overscan = 14", got.Len())
	}
}

func TestCompute_TinyContainer(t *testing.T) {
	t.Parallel()

	// Container shorter than one row still shows one row.
	got := Compute(5, 100, 10, 5, 0)
	if got.Len() < 1 {
		t.Errorf("window is empty: %+v", got)
	}
	if !got.Contains(5) {
		t.Error("window must contain the cursor")
	}
}

// Window invariant: for any cursor inside the list the returned window
// satisfies start <= cursor < end and never exceeds the list bounds.
func TestCompute_Invariant(t *testing.T) {
	t.Parallel()

	counts := []int{1, 2, 9, 10, 11, 57, 10000}
	for _, itemCount := range counts {
		for cursor := 0; cursor < itemCount; cursor += 1 + itemCount/97 {
			got := Compute(cursor, itemCount, 3, 30, 2)
			if !got.Contains(cursor) {
				t.Fatalf("itemCount=%d cursor=%d: window %+v does not contain cursor", itemCount, cursor, got)
			}
			if got.Start < 0 || got.End > itemCount {
				t.Fatalf("itemCount=%d cursor=%d: window %+v out of bounds", itemCount, cursor, got)
			}
			if got.Len() > itemCount {
				t.Fatalf("itemCount=%d cursor=%d: window longer than list", itemCount, cursor)
			}
		}
	}
}

func TestCalculator_HysteresisReusesWindow(t *testing.T) {
	t.Parallel()

	var c Calculator
	first := c.Compute(50, 100, 3, 30, 2)

	// Cursor moved by 2, still inside the window: identical window back.
	second := c.Compute(52, 100, 3, 30, 2)
	if second != first {
		t.Errorf("small in-window move recomputed: %+v vs %+v", second, first)
	}

	// A third small move is measured against the original cursor, which
	// is the one the window was computed for.
	third := c.Compute(51, 100, 3, 30, 2)
	if third != first {
		t.Errorf("expected reuse relative to last recomputed cursor, got %+v", third)
	}
}

func TestCalculator_RecomputesOnLargeDelta(t *testing.T) {
	t.Parallel()

	var c Calculator
	first := c.Compute(50, 100, 3, 30, 2)

	got := c.Compute(53, 100, 3, 30, 2)
	if got == first {
		t.Error("delta >= 3 must recompute the window")
	}
	if !got.Contains(53) {
		t.Error("recomputed window must contain the cursor")
	}
}

func TestCalculator_RecomputesWhenCursorLeavesWindow(t *testing.T) {
	t.Parallel()

	var c Calculator
	c.Compute(5, 100, 3, 30, 0)

	// Delta below the threshold but cursor may sit at the window edge;
	// force a jump far outside instead.
	got := c.Compute(90, 100, 3, 30, 0)
	if !got.Contains(90) {
		t.Errorf("window %+v must contain cursor 90", got)
	}
}

func TestCalculator_NeverReusesAfterShrink(t *testing.T) {
	t.Parallel()

	var c Calculator
	c.Compute(98, 100, 3, 30, 2)

	// List shrank below the previous window: reuse would index past the
	// end, so the window must be recomputed.
	got := c.Compute(97, 98, 3, 30, 2)
	if got.End > 98 {
		t.Errorf("window %+v exceeds shrunken list", got)
	}
	if !got.Contains(97) {
		t.Error("window must contain the cursor")
	}
}

func TestCalculator_Reset(t *testing.T) {
	t.Parallel()

	var c Calculator
	first := c.Compute(50, 100, 3, 30, 2)
	c.Reset()

	got := c.Compute(51, 100, 3, 30, 2)
	if got == first && !got.Contains(51) {
		t.Error("after Reset the window must be recomputed")
	}
	if !got.Contains(51) {
		t.Error("window must contain the cursor")
	}
}

func TestShouldPrefetch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cursor      int
		loaded      int
		hasNextPage bool
		loading     bool
		ratio       float64
		want        bool
	}{
		{"past threshold", 12, 15, true, false, 0.8, true},
		{"at threshold", 12, 15, true, false, 0.8, true},
		{"below threshold", 11, 15, true, false, 0.8, false},
		{"already loading", 12, 15, true, true, 0.8, false},
		{"no next page", 12, 15, false, false, 0.8, false},
		{"empty list", 0, 0, true, false, 0.8, false},
		{"last row ratio 1", 14, 15, true, false, 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ShouldPrefetch(tt.cursor, tt.loaded, tt.hasNextPage, tt.loading, tt.ratio)
			if got != tt.want {
				t.Errorf("ShouldPrefetch() = %v, want %v", got, tt.want)
			}
		})
	}
}
