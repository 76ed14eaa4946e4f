package styles

import (
	"github.com/cameronsjo/gh-manager-cli/internal/model"
)

// Symbols holds the icon/symbol set based on nerdfont configuration
type Symbols struct {
	Private  string
	Public   string
	Internal string
	Fork     string
	Archived string
	Starred  string
	Behind   string
}

// Default symbols (Unicode-safe, no nerd font required)
var defaultSymbols = Symbols{
	Private:  "●",
	Public:   "○",
	Internal: "◐",
	Fork:     "⑂",
	Archived: "▣",
	Starred:  "★",
	Behind:   "↓",
}

// Nerd font symbols
var nerdfontSymbols = Symbols{
	Private:  "", // nf-fa-lock
	Public:   "", // nf-fa-github
	Internal: "", // nf-fa-link
	Fork:     "", // nf-dev-git_branch
	Archived: "", // nf-fa-archive
	Starred:  "", // nf-fa-star
	Behind:   "", // nf-fa-arrow_down
}

// useNerdfont tracks whether nerd font symbols are enabled
var useNerdfont bool

// currentSymbols holds the active symbol set
var currentSymbols = defaultSymbols

// SetNerdfont enables or disables nerd font symbols
func SetNerdfont(enabled bool) {
	useNerdfont = enabled
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = defaultSymbols
	}
}

// NerdfontEnabled returns whether nerd font symbols are enabled
func NerdfontEnabled() bool {
	return useNerdfont
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}

// VisibilitySymbol returns the symbol for a repo's visibility.
func VisibilitySymbol(v model.Visibility) string {
	switch v {
	case model.VisibilityPrivate:
		return currentSymbols.Private
	case model.VisibilityInternal:
		return currentSymbols.Internal
	default:
		return currentSymbols.Public
	}
}

// FormatVisibility returns a styled symbol plus label for a repository's
// visibility state. Archived repositories get the archive marker instead
// since that state matters more than visibility at a glance.
func FormatVisibility(v model.Visibility, archived bool) string {
	if archived {
		return WarningStyle.Render(currentSymbols.Archived + " Archived")
	}
	switch v {
	case model.VisibilityPrivate:
		return ErrorStyle.Render(currentSymbols.Private + " Private")
	case model.VisibilityInternal:
		return WarningStyle.Render(currentSymbols.Internal + " Internal")
	default:
		return SuccessStyle.Render(currentSymbols.Public + " Public")
	}
}

// RepoBadges returns the compact marker string shown next to a repo name:
// fork, archived, and starred indicators in a fixed order.
func RepoBadges(r *model.Repo) string {
	if r == nil {
		return ""
	}
	badges := ""
	if r.IsFork {
		badges += currentSymbols.Fork
	}
	if r.IsArchived {
		badges += currentSymbols.Archived
	}
	if r.ViewerHasStarred {
		badges += currentSymbols.Starred
	}
	return badges
}

// StarredSymbol returns the starred marker.
func StarredSymbol() string {
	return currentSymbols.Starred
}

// BehindSymbol returns the commits-behind marker for forks.
func BehindSymbol() string {
	return currentSymbols.Behind
}
