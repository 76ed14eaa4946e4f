package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/cameronsjo/gh-manager-cli/internal/format"
	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/ui/styles"
)

// Fixed column widths; the name column absorbs the rest.
const (
	colLang    = 12
	colStars   = 7
	colSize    = 9
	colUpdated = 10
	chromeRows = 5 // title, column header, status, help hint, spacing
)

var sourceLabels = map[query.Source]string{
	query.SourcePersonal:     "Personal",
	query.SourceOrganization: "Org",
	query.SourceSearch:       "Search",
	query.SourceStarred:      "Starred",
}

// listHeight is the number of repo rows that fit the terminal.
func (m *browseModel) listHeight() int {
	h := m.height - chromeRows
	if m.mode != modeList && m.mode != modeHelp {
		h-- // input line
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *browseModel) View() tea.View {
	if m.mode == modeHelp {
		v := tea.NewView(m.renderHelp())
		v.AltScreen = true
		return v
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.renderColumnHeader())
	b.WriteString("\n")
	b.WriteString(m.renderRows())
	b.WriteString(m.renderFooter())

	v := tea.NewView(b.String())
	v.AltScreen = true
	return v
}

func (m *browseModel) renderTabs() string {
	var tabs []string
	for i, src := range query.Sources {
		label := fmt.Sprintf("%d:%s", i+1, sourceLabels[src])
		if src == m.active {
			acc := m.set.For(src)
			if total := acc.TotalCount(); total > 0 {
				label = fmt.Sprintf("%s %d/%d", label, acc.Len(), total)
			}
			tabs = append(tabs, styles.AccentStyle.Render(label))
		} else {
			tabs = append(tabs, styles.MutedStyle.Render(label))
		}
	}
	line := styles.Bold.Render("ghm") + "  " + strings.Join(tabs, "  ")

	sortLabel := fmt.Sprintf("  sort:%s/%s", strings.ToLower(string(m.sort)), strings.ToLower(string(m.dir)))
	if m.visibility != query.VisibilityAll {
		sortLabel += " vis:" + strings.ToLower(string(m.visibility))
	}
	if m.filter != "" {
		sortLabel += " filter:" + m.filter
	}
	return line + styles.InfoStyle.Render(sortLabel)
}

func (m *browseModel) renderColumnHeader() string {
	name := pad("NAME", m.nameWidth())
	header := fmt.Sprintf("  %s %s %s %s %s",
		name,
		pad("LANG", colLang),
		pad("STARS", colStars),
		pad("SIZE", colSize),
		pad("UPDATED", colUpdated),
	)
	return styles.Bold.Render(header)
}

// renderRows materializes only the windowed slice of the visible list.
func (m *browseModel) renderRows() string {
	vis := m.visibleItems()
	height := m.listHeight()

	if len(vis) == 0 {
		acc := m.set.For(m.active)
		msg := "No repositories"
		if acc.Loading() {
			msg = m.spin.View() + " Loading..."
		} else if m.filter != "" {
			msg = "No matches for filter"
		}
		return styles.MutedStyle.Render("  "+msg) + strings.Repeat("\n", height)
	}

	win := m.calc.Compute(m.cursor, len(vis), 1, height, m.cfg.Overscan)

	// The window includes overscan rows beyond the viewport; trim it to
	// the terminal while keeping the cursor in view.
	start, end := win.Start, win.End
	if end-start > height {
		start = m.cursor - height/2
		if start < win.Start {
			start = win.Start
		}
		if start > end-height {
			start = end - height
		}
		end = start + height
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(vis[i], i == m.cursor))
		b.WriteString("\n")
	}
	for i := end - start; i < height; i++ {
		b.WriteString("\n")
	}
	return b.String()
}

func (m *browseModel) nameWidth() int {
	w := m.width - colLang - colStars - colSize - colUpdated - 8
	if w < 20 {
		w = 20
	}
	return w
}

func (m *browseModel) renderRow(r *model.Repo, selected bool) string {
	name := r.NameWithOwner
	if badges := styles.RepoBadges(r); badges != "" {
		name += " " + badges
	}
	if r.HasCommitsBehind && r.CommitsBehind > 0 {
		name += fmt.Sprintf(" %s%d", styles.BehindSymbol(), r.CommitsBehind)
	}

	lang := "-"
	if r.PrimaryLanguage != nil {
		lang = r.PrimaryLanguage.Name
	}

	row := fmt.Sprintf("%s %s %s %s %s",
		pad(truncate(name, m.nameWidth()), m.nameWidth()),
		pad(truncate(lang, colLang), colLang),
		pad(styles.VisibilitySymbol(r.Visibility)+" "+format.CompactCount(r.StargazerCount), colStars),
		pad(format.DiskSize(r.DiskUsageKiB), colSize),
		pad(format.RelativeTime(r.UpdatedAt), colUpdated),
	)

	switch {
	case selected:
		return styles.AccentStyle.Render("> " + row)
	case r.IsArchived:
		return styles.MutedStyle.Render("  " + row)
	default:
		return styles.NormalStyle.Render("  " + row)
	}
}

func (m *browseModel) renderFooter() string {
	var b strings.Builder

	if m.mode != modeList {
		b.WriteString(styles.PrimaryStyle.Render(m.inputLabel()) + " " + m.input.View())
		b.WriteString("\n")
	}

	acc := m.set.For(m.active)
	switch {
	case m.errMsg != "":
		b.WriteString(styles.ErrorStyle.Render(m.errMsg))
	case acc.Loading():
		b.WriteString(m.spin.View() + styles.InfoStyle.Render(" Loading..."))
	case m.status != "":
		b.WriteString(styles.SuccessStyle.Render(m.status))
	}
	b.WriteString("\n")

	hint := "↑/↓ move • tab source • / filter • r refresh • ? help • q quit"
	if rl := acc.RateLimit(); rl.Limit > 0 && rl.Remaining < 100 {
		hint = fmt.Sprintf("rate limit low: %d/%d left • ", rl.Remaining, rl.Limit) + hint
	}
	b.WriteString(styles.MutedStyle.Render(hint))

	return b.String()
}

func (m *browseModel) inputLabel() string {
	switch m.mode {
	case modeFilter:
		return "Filter:"
	case modeSearch:
		return "Search:"
	case modeOrg:
		return "Organization:"
	case modeRename:
		return "Rename to:"
	case modeConfirmDelete:
		return "Confirm delete:"
	default:
		return ">"
	}
}

func (m *browseModel) renderHelp() string {
	help := `ghm key bindings

Navigation
  ↑/k ↓/j        move cursor
  pgup/pgdown    page up/down
  g/G            first/last row
  tab, 1-4       switch source

Query
  /              fuzzy filter loaded rows
  s              server-side search
  o              set organization
  t              cycle sort field
  d              toggle sort direction
  v              cycle visibility filter
  r              refresh (bypass cache)

Actions
  c              copy name to clipboard
  *              star/unstar
  a              archive/unarchive
  p              toggle public/private
  m              rename
  y              sync fork with upstream
  x              delete (type full name to confirm)

Press any key to close`
	return styles.RoundedBorder.Render(help)
}

// pad right-pads s to width (truncating is the caller's business).
func pad(s string, width int) string {
	if len([]rune(s)) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len([]rune(s)))
}

// truncate shortens s to at most width runes with an ellipsis.
func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}
