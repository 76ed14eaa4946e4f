package ui

import (
	"context"
	"os"

	spinner "charm.land/bubbles/v2/spinner"
	textinput "charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/colorprofile"
	"github.com/sahilm/fuzzy"

	"github.com/cameronsjo/gh-manager-cli/internal/config"
	"github.com/cameronsjo/gh-manager-cli/internal/github"
	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/reconcile"
	"github.com/cameronsjo/gh-manager-cli/internal/source"
	"github.com/cameronsjo/gh-manager-cli/internal/window"
)

// mode is the browser's input state.
type mode int

const (
	modeList mode = iota
	modeFilter
	modeSearch
	modeOrg
	modeRename
	modeConfirmDelete
	modeHelp
)

// BrowseOptions carries the collaborators the browser operates on.
type BrowseOptions struct {
	Config     config.Config
	Sources    *source.Set
	Reconciler *reconcile.Reconciler
	Transport  *github.Transport

	// Search seeds the search view's query without opening the input.
	Search string
}

// browseModel is the Bubble Tea model for the repository browser.
type browseModel struct {
	ctx context.Context
	cfg config.Config
	set *source.Set
	rec *reconcile.Reconciler
	gh  *github.Transport

	active query.Source
	cursor int
	calc   window.Calculator

	// Query parameters shared by every source spec.
	sort       query.SortField
	dir        query.SortDirection
	visibility query.VisibilityFilter
	org        string
	searchText string

	// Client-side fuzzy filter over the loaded list.
	filter string

	mode  mode
	input textinput.Model
	spin  spinner.Model

	// Pending delete target, confirmed by typing its qualified name.
	deleteTarget *model.Repo

	status string
	errMsg string

	width  int
	height int
}

// repoSource adapts a repo slice to fuzzy.Source.
type repoSource []*model.Repo

func (s repoSource) String(i int) string { return s[i].NameWithOwner }
func (s repoSource) Len() int            { return len(s) }

func newBrowseModel(ctx context.Context, opts BrowseOptions) *browseModel {
	ti := textinput.New()
	ti.Placeholder = ""

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	cfg := opts.Config
	return &browseModel{
		ctx:        ctx,
		cfg:        cfg,
		set:        opts.Sources,
		rec:        opts.Reconciler,
		gh:         opts.Transport,
		active:     query.SourcePersonal,
		sort:       cfg.SortField(),
		dir:        cfg.SortDirection(),
		visibility: cfg.VisibilityFilter(),
		org:        cfg.Org,
		searchText: opts.Search,
		input:      ti,
		spin:       sp,
		width:      80,
		height:     24,
	}
}

// RunBrowse starts the interactive browser and blocks until it exits.
func RunBrowse(ctx context.Context, opts BrowseOptions) error {
	m := newBrowseModel(ctx, opts)

	profile := colorprofile.Detect(os.Stdout, os.Environ())
	p := tea.NewProgram(m,
		tea.WithColorProfile(profile),
	)
	_, err := p.Run()
	return err
}

// specFor assembles the query spec for a source from the current
// parameters. Per-source text (org login, search query) only binds to
// its own source so switching sources never cross-contaminates keys.
func (m *browseModel) specFor(src query.Source) query.Spec {
	spec := query.Spec{
		Source:       src,
		Sort:         m.sort,
		Direction:    m.dir,
		PageSize:     m.cfg.PageSize,
		ForkTracking: m.cfg.ForkTracking,
		Visibility:   m.visibility,
	}
	switch src {
	case query.SourcePersonal:
		spec.Affiliations = []query.Affiliation{query.AffiliationOwner}
	case query.SourceOrganization:
		spec.OrgLogin = m.org
	case query.SourceSearch:
		spec.SearchText = m.searchText
	}
	return spec
}

// visibleItems returns the active list, narrowed by the client-side
// fuzzy filter when one is set. Filtering never touches the accumulated
// list itself.
func (m *browseModel) visibleItems() []*model.Repo {
	items := m.set.For(m.active).Items()
	if m.filter == "" {
		return items
	}
	matches := fuzzy.FindFrom(m.filter, repoSource(items))
	out := make([]*model.Repo, len(matches))
	for i, match := range matches {
		out[i] = items[match.Index]
	}
	return out
}

// current returns the repo under the cursor, or nil.
func (m *browseModel) current() *model.Repo {
	vis := m.visibleItems()
	if m.cursor < 0 || m.cursor >= len(vis) {
		return nil
	}
	return vis[m.cursor]
}

func (m *browseModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.activate(query.SourcePersonal, false))
}

// activate points the browser at a source, applying the current spec.
// An empty list triggers a fetch; still-populated state from an earlier
// visit with the same parameters is reused as is.
func (m *browseModel) activate(src query.Source, force bool) tea.Cmd {
	m.active = src
	m.cursor = 0
	m.calc.Reset()
	m.filter = ""
	m.errMsg = ""

	if src == query.SourceOrganization && m.org == "" {
		m.status = "No organization set. Press o to choose one."
		return nil
	}
	if src == query.SourceSearch && m.searchText == "" {
		m.status = "No search query. Press s to enter one."
		return nil
	}

	acc := m.set.For(src)
	acc.SetSpec(m.specFor(src))
	if force || acc.Len() == 0 {
		return m.fetchFirst(acc, force)
	}
	return nil
}

// reapplySpecs pushes the current parameters to every accumulator and
// refetches the active source. Called after sort, direction, or
// visibility changes.
func (m *browseModel) reapplySpecs() tea.Cmd {
	for _, src := range query.Sources {
		if src == query.SourceOrganization && m.org == "" {
			continue
		}
		if src == query.SourceSearch && m.searchText == "" {
			continue
		}
		m.set.For(src).SetSpec(m.specFor(src))
	}
	return m.activate(m.active, false)
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		// Keep ticking so the spinner is live whenever a fetch starts.
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case pageMsg:
		return m.handlePage(msg)

	case mutationMsg:
		return m.handleMutation(msg)

	case tea.KeyPressMsg:
		if m.mode != modeList && m.mode != modeHelp {
			return m.handleInputKey(msg)
		}
		return m.handleListKey(msg)
	}

	return m, nil
}

func (m *browseModel) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if github.IsRateLimit(msg.err) {
			m.errMsg = "API rate limit exceeded. Cached data shown; try again later."
		} else {
			m.errMsg = msg.err.Error()
		}
		return m, nil
	}
	if msg.src == m.active {
		m.errMsg = ""
		m.clampCursor()
	}
	return m, nil
}

func (m *browseModel) handleMutation(msg mutationMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if github.IsRateLimit(msg.err) {
			m.errMsg = "API rate limit exceeded. Mutation not applied."
		} else {
			m.errMsg = msg.verb + ": " + msg.err.Error()
		}
		return m, nil
	}
	if msg.apply != nil {
		msg.apply()
	}
	m.status = msg.status
	m.errMsg = ""
	m.clampCursor()
	return m, nil
}

func (m *browseModel) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeHelp {
		m.mode = modeList
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		return m.moveCursor(m.cursor - 1)
	case "down", "j":
		return m.moveCursor(m.cursor + 1)
	case "pgup":
		return m.moveCursor(m.cursor - m.pageStride())
	case "pgdown":
		return m.moveCursor(m.cursor + m.pageStride())
	case "home", "g":
		return m.moveCursor(0)
	case "end", "G":
		return m.moveCursor(len(m.visibleItems()) - 1)

	case "tab":
		return m, m.activate(nextSource(m.active, 1), false)
	case "shift+tab":
		return m, m.activate(nextSource(m.active, -1), false)
	case "1":
		return m, m.activate(query.SourcePersonal, false)
	case "2":
		return m, m.activate(query.SourceOrganization, false)
	case "3":
		return m, m.activate(query.SourceSearch, false)
	case "4":
		return m, m.activate(query.SourceStarred, false)

	case "/":
		m.enterInput(modeFilter, "filter", m.filter)
		return m, nil
	case "s":
		m.enterInput(modeSearch, "search query", m.searchText)
		return m, nil
	case "o":
		m.enterInput(modeOrg, "organization", m.org)
		return m, nil

	case "t":
		m.sort = nextSortField(m.sort)
		return m, m.reapplySpecs()
	case "d":
		if m.dir == query.SortDesc {
			m.dir = query.SortAsc
		} else {
			m.dir = query.SortDesc
		}
		return m, m.reapplySpecs()
	case "v":
		m.visibility = nextVisibility(m.visibility)
		return m, m.reapplySpecs()

	case "r":
		return m, m.activate(m.active, true)

	case "c":
		if r := m.current(); r != nil {
			if err := clipboard.WriteAll(r.NameWithOwner); err != nil {
				m.errMsg = "clipboard: " + err.Error()
			} else {
				m.status = "Copied " + r.NameWithOwner
			}
		}
		return m, nil

	case "*":
		if r := m.current(); r != nil {
			return m, m.starCmd(r)
		}
		return m, nil
	case "a":
		if r := m.current(); r != nil {
			return m, m.archiveCmd(r)
		}
		return m, nil
	case "p":
		if r := m.current(); r != nil {
			return m, m.visibilityCmd(r)
		}
		return m, nil
	case "y":
		if r := m.current(); r != nil {
			if !r.IsFork {
				m.errMsg = r.NameWithOwner + " is not a fork"
				return m, nil
			}
			return m, m.syncForkCmd(r)
		}
		return m, nil
	case "m":
		if r := m.current(); r != nil {
			m.deleteTarget = nil
			m.enterInput(modeRename, "new name", r.Name)
		}
		return m, nil
	case "x":
		if r := m.current(); r != nil {
			m.deleteTarget = r
			m.enterInput(modeConfirmDelete, "type "+r.NameWithOwner+" to delete", "")
		}
		return m, nil

	case "?":
		m.mode = modeHelp
		return m, nil
	}

	return m, nil
}

func (m *browseModel) handleInputKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		if m.mode == modeFilter {
			m.filter = ""
			m.clampCursor()
		}
		m.exitInput()
		return m, nil

	case "enter":
		return m.commitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// The filter applies live while typing.
	if m.mode == modeFilter {
		m.filter = m.input.Value()
		m.cursor = 0
		m.calc.Reset()
	}
	return m, cmd
}

// commitInput applies the entered value for the current input mode.
func (m *browseModel) commitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	switch m.mode {
	case modeFilter:
		m.exitInput()
		return m, nil

	case modeSearch:
		m.exitInput()
		m.searchText = value
		if value == "" {
			return m, nil
		}
		m.set.For(query.SourceSearch).SetSpec(m.specFor(query.SourceSearch))
		return m, m.activate(query.SourceSearch, false)

	case modeOrg:
		m.exitInput()
		m.org = value
		if value == "" {
			return m, nil
		}
		m.set.For(query.SourceOrganization).SetSpec(m.specFor(query.SourceOrganization))
		return m, m.activate(query.SourceOrganization, false)

	case modeRename:
		r := m.current()
		m.exitInput()
		if r == nil || value == "" || value == r.Name {
			return m, nil
		}
		return m, m.renameCmd(r, value)

	case modeConfirmDelete:
		target := m.deleteTarget
		m.deleteTarget = nil
		m.exitInput()
		if target == nil {
			return m, nil
		}
		// Typed name must match exactly; anything else aborts.
		if value != target.NameWithOwner {
			m.errMsg = "Name mismatch, delete aborted"
			return m, nil
		}
		return m, m.deleteCmd(target)
	}

	m.exitInput()
	return m, nil
}

func (m *browseModel) enterInput(mode mode, placeholder, value string) {
	m.mode = mode
	m.status = ""
	m.errMsg = ""
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.Focus()
}

func (m *browseModel) exitInput() {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
}

// moveCursor moves within the visible list and triggers a background
// prefetch of the next page once the cursor passes the threshold.
func (m *browseModel) moveCursor(to int) (tea.Model, tea.Cmd) {
	vis := m.visibleItems()
	if len(vis) == 0 {
		m.cursor = 0
		return m, nil
	}
	if to < 0 {
		to = 0
	}
	if to >= len(vis) {
		to = len(vis) - 1
	}
	m.cursor = to

	// Prefetch decisions look at the unfiltered list: the filter hides
	// rows but the next page still extends the underlying list.
	acc := m.set.For(m.active)
	if m.filter == "" && window.ShouldPrefetch(m.cursor, acc.Len(), acc.HasNextPage(), acc.Loading(), m.cfg.PrefetchAt) {
		return m, tea.Batch(m.spin.Tick, m.fetchNext(acc))
	}
	return m, nil
}

// clampCursor keeps the cursor inside the visible list after removals.
func (m *browseModel) clampCursor() {
	n := len(m.visibleItems())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// pageStride is the cursor jump for pgup/pgdown.
func (m *browseModel) pageStride() int {
	h := m.listHeight()
	if h < 1 {
		return 1
	}
	return h
}

func nextSource(src query.Source, step int) query.Source {
	for i, s := range query.Sources {
		if s == src {
			next := (i + step + len(query.Sources)) % len(query.Sources)
			return query.Sources[next]
		}
	}
	return query.SourcePersonal
}

func nextSortField(f query.SortField) query.SortField {
	switch f {
	case query.SortUpdated:
		return query.SortPushed
	case query.SortPushed:
		return query.SortName
	case query.SortName:
		return query.SortStars
	default:
		return query.SortUpdated
	}
}

func nextVisibility(v query.VisibilityFilter) query.VisibilityFilter {
	switch v {
	case query.VisibilityAll:
		return query.VisibilityPublic
	case query.VisibilityPublic:
		return query.VisibilityPrivate
	default:
		return query.VisibilityAll
	}
}
