package styles

import (
	"strings"
	"testing"

	"github.com/cameronsjo/gh-manager-cli/internal/model"
)

func TestSetNerdfont(t *testing.T) {
	SetNerdfont(false)
	if NerdfontEnabled() {
		t.Error("nerdfont should be disabled")
	}
	if CurrentSymbols() != defaultSymbols {
		t.Error("expected default symbols when nerdfont disabled")
	}

	SetNerdfont(true)
	if !NerdfontEnabled() {
		t.Error("nerdfont should be enabled")
	}
	if CurrentSymbols() != nerdfontSymbols {
		t.Error("expected nerdfont symbols when enabled")
	}

	SetNerdfont(false)
}

func TestVisibilitySymbol(t *testing.T) {
	SetNerdfont(false)

	tests := []struct {
		v    model.Visibility
		want string
	}{
		{model.VisibilityPrivate, defaultSymbols.Private},
		{model.VisibilityPublic, defaultSymbols.Public},
		{model.VisibilityInternal, defaultSymbols.Internal},
		{"", defaultSymbols.Public},
	}

	for _, tt := range tests {
		if got := VisibilitySymbol(tt.v); got != tt.want {
			t.Errorf("VisibilitySymbol(%q) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestFormatVisibility(t *testing.T) {
	SetNerdfont(false)

	tests := []struct {
		name     string
		v        model.Visibility
		archived bool
		want     string
	}{
		{"public", model.VisibilityPublic, false, "Public"},
		{"private", model.VisibilityPrivate, false, "Private"},
		{"internal", model.VisibilityInternal, false, "Internal"},
		{"archived wins over visibility", model.VisibilityPrivate, true, "Archived"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatVisibility(tt.v, tt.archived)
			if !strings.Contains(got, tt.want) {
				t.Errorf("FormatVisibility() = %q, want to contain %q", got, tt.want)
			}
		})
	}
}

func TestRepoBadges(t *testing.T) {
	SetNerdfont(false)

	tests := []struct {
		name string
		repo *model.Repo
		want string
	}{
		{"nil repo", nil, ""},
		{"plain repo", &model.Repo{}, ""},
		{"fork", &model.Repo{IsFork: true}, defaultSymbols.Fork},
		{"starred archive fork", &model.Repo{IsFork: true, IsArchived: true, ViewerHasStarred: true},
			defaultSymbols.Fork + defaultSymbols.Archived + defaultSymbols.Starred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepoBadges(tt.repo); got != tt.want {
				t.Errorf("RepoBadges() = %q, want %q", got, tt.want)
			}
		})
	}
}
