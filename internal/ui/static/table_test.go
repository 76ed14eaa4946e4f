package static

import (
	"strings"
	"testing"
)

func TestRenderTable_Empty(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"NAME", "STARS"}, nil); got != "" {
		t.Errorf("RenderTable with no rows = %q, want empty", got)
	}
}

func TestRenderTable_AlignsColumns(t *testing.T) {
	t.Parallel()

	out := RenderTable(
		[]string{"NAME", "STARS", "UPDATED"},
		[][]string{
			{"octo/backend-api", "1.2k", "2d ago"},
			{"octo/x", "3", "just now"},
		},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows", len(lines))
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "UPDATED") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "octo/backend-api") {
		t.Errorf("row 1 = %q", lines[1])
	}

	// Columns are padded to the widest cell, so STARS starts at the same
	// offset in both rows.
	if strings.Index(lines[1], "1.2k") < 0 || strings.Index(lines[2], "3") < 0 {
		t.Fatalf("missing cell content in %q / %q", lines[1], lines[2])
	}
}
