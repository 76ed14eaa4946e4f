// Package query defines the immutable query specification and derives the
// freshness key that the freshness store uses to decide cache policy.
package query

import (
	"fmt"
	"sort"
	"strings"
)

// Source selects which of the four repository collections a query targets.
type Source string

const (
	SourcePersonal     Source = "personal"
	SourceOrganization Source = "organization"
	SourceSearch       Source = "search"
	SourceStarred      Source = "starred"
)

// Sources lists every source in display order.
var Sources = []Source{SourcePersonal, SourceOrganization, SourceSearch, SourceStarred}

// SortField is the server-side sort key.
type SortField string

const (
	SortUpdated SortField = "UPDATED_AT"
	SortPushed  SortField = "PUSHED_AT"
	SortName    SortField = "NAME"
	SortStars   SortField = "STARGAZERS"
)

// SortDirection is ascending or descending.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// Affiliation restricts which relationship the viewer has to listed repos.
type Affiliation string

const (
	AffiliationOwner        Affiliation = "OWNER"
	AffiliationCollaborator Affiliation = "COLLABORATOR"
	AffiliationOrgMember    Affiliation = "ORGANIZATION_MEMBER"
)

// VisibilityFilter narrows results to one visibility, or "" for all.
type VisibilityFilter string

const (
	VisibilityAll     VisibilityFilter = ""
	VisibilityPublic  VisibilityFilter = "PUBLIC"
	VisibilityPrivate VisibilityFilter = "PRIVATE"
)

// Spec is a value object describing one repository query. It is never
// persisted; it exists to parameterize fetches and to derive a freshness
// key. Two specs with equal fields always produce the same key.
type Spec struct {
	Source       Source
	OrgLogin     string // only for SourceOrganization
	SearchText   string // only for SourceSearch
	Sort         SortField
	Direction    SortDirection
	PageSize     int
	ForkTracking bool
	Affiliations []Affiliation
	Visibility   VisibilityFilter
}

// FreshnessKey returns a deterministic, order-independent serialization of
// every field that changes the result set. Omitting a field here would make
// two different queries share a freshness record and serve stale data, so
// each field is written explicitly rather than hand-assembled at call sites.
func (s Spec) FreshnessKey() string {
	affs := make([]string, len(s.Affiliations))
	for i, a := range s.Affiliations {
		affs[i] = string(a)
	}
	sort.Strings(affs)

	parts := []string{
		"src=" + string(s.Source),
		"org=" + s.OrgLogin,
		"q=" + s.SearchText,
		"sort=" + string(s.Sort),
		"dir=" + string(s.Direction),
		fmt.Sprintf("page=%d", s.PageSize),
		fmt.Sprintf("forks=%t", s.ForkTracking),
		"aff=" + strings.Join(affs, "+"),
		"vis=" + string(s.Visibility),
	}
	return strings.Join(parts, "|")
}

// Matches reports whether a repo visibility passes the filter.
func (f VisibilityFilter) Matches(v string) bool {
	return f == VisibilityAll || string(f) == v
}
