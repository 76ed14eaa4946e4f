package ui

import (
	"errors"
	"path"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/source"
)

// pageMsg reports a completed page fetch. The accumulator already holds
// the data; the message only carries the source and any error.
type pageMsg struct {
	src query.Source
	err error
}

// mutationMsg reports a confirmed (or failed) remote mutation. apply
// runs on the UI goroutine so reconciliation never races the renderer.
type mutationMsg struct {
	verb   string
	status string
	err    error
	apply  func()
}

func (m *browseModel) fetchFirst(acc *source.Accumulator, force bool) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		err := acc.FetchFirst(ctx, force)
		return pageMsg{src: acc.Source(), err: ignoreExpected(err)}
	}
}

func (m *browseModel) fetchNext(acc *source.Accumulator) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		err := acc.FetchNext(ctx)
		return pageMsg{src: acc.Source(), err: ignoreExpected(err)}
	}
}

// ignoreExpected drops the coordination sentinels: an in-flight or
// superseded fetch is normal turnover, not something to surface.
func ignoreExpected(err error) error {
	if errors.Is(err, source.ErrFetchInFlight) || errors.Is(err, source.ErrSuperseded) {
		return nil
	}
	return err
}

func (m *browseModel) deleteCmd(r *model.Repo) tea.Cmd {
	ctx, gh, rec := m.ctx, m.gh, m.rec
	id, nwo := r.ID, r.NameWithOwner
	return func() tea.Msg {
		if err := gh.DeleteRepo(ctx, nwo); err != nil {
			return mutationMsg{verb: "delete", err: err}
		}
		return mutationMsg{
			verb:   "delete",
			status: "Deleted " + nwo,
			apply:  func() { rec.AfterDelete(id) },
		}
	}
}

func (m *browseModel) archiveCmd(r *model.Repo) tea.Cmd {
	ctx, gh, rec := m.ctx, m.gh, m.rec
	id, nwo := r.ID, r.NameWithOwner
	archived := !r.IsArchived
	return func() tea.Msg {
		if err := gh.SetArchived(ctx, id, archived); err != nil {
			return mutationMsg{verb: "archive", err: err}
		}
		verb := "Archived "
		if !archived {
			verb = "Unarchived "
		}
		return mutationMsg{
			verb:   "archive",
			status: verb + nwo,
			apply:  func() { rec.AfterArchiveToggle(id, archived) },
		}
	}
}

func (m *browseModel) visibilityCmd(r *model.Repo) tea.Cmd {
	ctx, gh, rec := m.ctx, m.gh, m.rec
	id, nwo := r.ID, r.NameWithOwner

	// Internal repos are excluded from the toggle: flipping them public
	// is a policy decision that belongs in the web UI.
	next := model.VisibilityPrivate
	if r.Visibility == model.VisibilityPrivate {
		next = model.VisibilityPublic
	} else if r.Visibility == model.VisibilityInternal {
		return func() tea.Msg {
			return mutationMsg{verb: "visibility", err: errors.New("internal repositories cannot be toggled here")}
		}
	}

	return func() tea.Msg {
		if err := gh.SetVisibility(ctx, nwo, string(next)); err != nil {
			return mutationMsg{verb: "visibility", err: err}
		}
		return mutationMsg{
			verb:   "visibility",
			status: nwo + " is now " + string(next),
			apply:  func() { rec.AfterVisibilityChange(id, next) },
		}
	}
}

func (m *browseModel) renameCmd(r *model.Repo, newName string) tea.Cmd {
	ctx, gh, rec := m.ctx, m.gh, m.rec
	id, nwo := r.ID, r.NameWithOwner
	return func() tea.Msg {
		confirmed, err := gh.Rename(ctx, nwo, newName)
		if err != nil {
			return mutationMsg{verb: "rename", err: err}
		}
		return mutationMsg{
			verb:   "rename",
			status: "Renamed to " + confirmed,
			apply:  func() { rec.AfterRename(id, path.Base(confirmed), confirmed) },
		}
	}
}

func (m *browseModel) starCmd(r *model.Repo) tea.Cmd {
	ctx, gh, rec := m.ctx, m.gh, m.rec
	id, nwo := r.ID, r.NameWithOwner
	starred := !r.ViewerHasStarred
	delta := 1
	if !starred {
		delta = -1
	}
	return func() tea.Msg {
		if err := gh.SetStarred(ctx, nwo, starred); err != nil {
			return mutationMsg{verb: "star", err: err}
		}
		verb := "Starred "
		if !starred {
			verb = "Unstarred "
		}
		return mutationMsg{
			verb:   "star",
			status: verb + nwo,
			apply:  func() { rec.AfterStarToggle(id, starred, delta) },
		}
	}
}

func (m *browseModel) syncForkCmd(r *model.Repo) tea.Cmd {
	ctx, gh, rec := m.ctx, m.gh, m.rec
	id, nwo := r.ID, r.NameWithOwner
	branch := r.DefaultBranch
	tracking := m.cfg.ForkTracking
	return func() tea.Msg {
		if err := gh.SyncFork(ctx, nwo, branch); err != nil {
			return mutationMsg{verb: "sync", err: err}
		}
		return mutationMsg{
			verb:   "sync",
			status: "Synced " + nwo + " with upstream",
			apply:  func() { rec.AfterForkSync(id, time.Now(), tracking) },
		}
	}
}
