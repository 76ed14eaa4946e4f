package ui

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/cameronsjo/gh-manager-cli/internal/config"
	"github.com/cameronsjo/gh-manager-cli/internal/freshness"
	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/reconcile"
	"github.com/cameronsjo/gh-manager-cli/internal/repocache"
	"github.com/cameronsjo/gh-manager-cli/internal/source"
	"github.com/cameronsjo/gh-manager-cli/internal/window"
)

// stubTransport serves one fixed page for every query.
type stubTransport struct {
	nodes []*model.Repo
}

func (s *stubTransport) FetchPage(ctx context.Context, spec query.Spec, cursor string, policy source.FetchPolicy) (*source.Page, error) {
	return &source.Page{
		Nodes:      s.nodes,
		TotalCount: len(s.nodes),
	}, nil
}

func repo(id, nwo string) *model.Repo {
	return &model.Repo{ID: id, Name: nwo, NameWithOwner: nwo, UpdatedAt: time.Now()}
}

func testModel(t *testing.T, repos ...*model.Repo) *browseModel {
	t.Helper()

	dir := t.TempDir()
	cache := repocache.Open(repocache.Path(dir), repocache.WithDebounce(0))
	fresh := freshness.Load(freshness.Path(dir))
	tr := &stubTransport{nodes: repos}
	set := source.NewSet(tr, fresh, cache, 0, 0)

	m := newBrowseModel(context.Background(), BrowseOptions{
		Config:     config.Default(),
		Sources:    set,
		Reconciler: reconcile.New(cache, set),
	})

	acc := set.For(query.SourcePersonal)
	acc.SetSpec(m.specFor(query.SourcePersonal))
	if err := acc.FetchFirst(context.Background(), true); err != nil {
		t.Fatalf("seed fetch: %v", err)
	}
	return m
}

func TestNextSource_Cycles(t *testing.T) {
	t.Parallel()

	src := query.SourcePersonal
	for i := 0; i < len(query.Sources); i++ {
		src = nextSource(src, 1)
	}
	if src != query.SourcePersonal {
		t.Errorf("full forward cycle ended on %v", src)
	}
	if got := nextSource(query.SourcePersonal, -1); got != query.SourceStarred {
		t.Errorf("backward from personal = %v, want starred", got)
	}
}

func TestNextSortField_Cycles(t *testing.T) {
	t.Parallel()

	seen := map[query.SortField]bool{}
	f := query.SortUpdated
	for i := 0; i < 4; i++ {
		seen[f] = true
		f = nextSortField(f)
	}
	if len(seen) != 4 || f != query.SortUpdated {
		t.Errorf("sort cycle incomplete: %v, ended on %v", seen, f)
	}
}

func TestNextVisibility_Cycles(t *testing.T) {
	t.Parallel()

	v := query.VisibilityAll
	want := []query.VisibilityFilter{query.VisibilityPublic, query.VisibilityPrivate, query.VisibilityAll}
	for _, w := range want {
		v = nextVisibility(v)
		if v != w {
			t.Fatalf("nextVisibility = %v, want %v", v, w)
		}
	}
}

func TestVisibleItems_FuzzyFilter(t *testing.T) {
	t.Parallel()

	m := testModel(t,
		repo("R1", "octo/backend-api"),
		repo("R2", "octo/frontend"),
		repo("R3", "octo/api-gateway"),
	)

	if got := len(m.visibleItems()); got != 3 {
		t.Fatalf("unfiltered len = %d, want 3", got)
	}

	m.filter = "api"
	vis := m.visibleItems()
	if len(vis) != 2 {
		t.Fatalf("filtered len = %d, want 2", len(vis))
	}
	for _, r := range vis {
		if r.ID == "R2" {
			t.Error("frontend should not match filter \"api\"")
		}
	}
}

func TestMoveCursor_Clamps(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"), repo("R2", "a/two"))

	m.moveCursor(99)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want clamped to 1", m.cursor)
	}
	m.moveCursor(-5)
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
}

func TestHandleMutation_DeleteRemovesRow(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"), repo("R2", "a/two"))
	m.cursor = 1

	rec := m.rec
	m.handleMutation(mutationMsg{
		verb:   "delete",
		status: "Deleted a/two",
		apply:  func() { rec.AfterDelete("R2") },
	})

	if got := len(m.visibleItems()); got != 1 {
		t.Fatalf("list len = %d after delete, want 1", got)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want clamped to 0", m.cursor)
	}
	if m.status != "Deleted a/two" {
		t.Errorf("status = %q", m.status)
	}
}

func TestHandleMutation_ErrorShown(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"))
	m.handleMutation(mutationMsg{verb: "archive", err: context.DeadlineExceeded})

	if m.errMsg == "" {
		t.Error("expected error message to be set")
	}
}

func TestConfirmDelete_NameMismatchAborts(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"))
	m.deleteTarget = m.visibleItems()[0]
	m.mode = modeConfirmDelete
	m.input.SetValue("a/wrong")

	_, cmd := m.commitInput()
	if cmd != nil {
		t.Error("mismatched name must not produce a delete command")
	}
	if m.errMsg == "" {
		t.Error("expected abort message")
	}
	if got := len(m.visibleItems()); got != 1 {
		t.Errorf("list len = %d, want untouched 1", got)
	}
}

func TestConfirmDelete_ExactNameRuns(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"))
	m.gh = nil // the command closure must not fire during this test
	m.deleteTarget = m.visibleItems()[0]
	m.mode = modeConfirmDelete
	m.input.SetValue("a/one")

	_, cmd := m.commitInput()
	if cmd == nil {
		t.Error("exact name must produce a delete command")
	}
	if m.mode != modeList {
		t.Error("input mode should close after confirm")
	}
}

func TestActivate_EmptyOrgNeedsLogin(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"))
	m.org = ""

	cmd := m.activate(query.SourceOrganization, false)
	if cmd != nil {
		t.Error("no fetch should start without an organization")
	}
	if m.status == "" {
		t.Error("expected a hint about setting the organization")
	}
}

func TestFilterPrefetchSuppressed(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"), repo("R2", "a/two"), repo("R3", "a/three"))
	m.filter = "a/"

	// Even at the end of the filtered list no prefetch fires while a
	// filter is active.
	_, cmd := m.moveCursor(2)
	if cmd != nil {
		t.Error("prefetch must not fire while filtering")
	}
}

func TestShouldPrefetchWiring(t *testing.T) {
	t.Parallel()

	// The model delegates to window.ShouldPrefetch; sanity-check the
	// threshold used by default config.
	cfg := config.Default()
	if !window.ShouldPrefetch(12, 15, true, false, cfg.PrefetchAt) {
		t.Error("cursor at 80% of loaded list should trigger prefetch")
	}
	if window.ShouldPrefetch(5, 15, true, false, cfg.PrefetchAt) {
		t.Error("cursor far from the end should not trigger prefetch")
	}
}

func TestHandleListKey_QuitKeys(t *testing.T) {
	t.Parallel()

	m := testModel(t, repo("R1", "a/one"))
	_, cmd := m.handleListKey(keyPress("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

// keyPress builds a key press message for a single printable key.
func keyPress(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: rune(s[0]), Text: s}
}
