// Package model defines the repository record shared by the cache,
// the page accumulators, and the UI.
package model

import "time"

// Visibility is the repository visibility as reported by the API.
type Visibility string

const (
	VisibilityPublic   Visibility = "PUBLIC"
	VisibilityPrivate  Visibility = "PRIVATE"
	VisibilityInternal Visibility = "INTERNAL"
)

// OwnerKind distinguishes user-owned from organization-owned repositories.
type OwnerKind string

const (
	OwnerUser         OwnerKind = "User"
	OwnerOrganization OwnerKind = "Organization"
)

// Owner identifies who a repository belongs to.
type Owner struct {
	Kind  OwnerKind `json:"kind"`
	Login string    `json:"login"`
}

// Language describes a repository's primary language.
type Language struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// Parent references the upstream repository of a fork. The commit count
// is a snapshot taken at fetch time so the behind-count after a fork sync
// can be recomputed locally without another API call.
type Parent struct {
	NameWithOwner    string `json:"name_with_owner"`
	DefaultBranchOID string `json:"default_branch_oid,omitempty"`
	TotalCommits     int    `json:"total_commits"`
	HasTotalCommits  bool   `json:"has_total_commits"`
}

// Repo is one repository record. ID is the stable node id assigned by the
// API; it is globally unique and every patch targets records by it.
type Repo struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	NameWithOwner string     `json:"name_with_owner"`
	Visibility    Visibility `json:"visibility"`
	IsPrivate     bool       `json:"is_private"`
	IsArchived    bool       `json:"is_archived"`
	IsFork        bool       `json:"is_fork"`

	StargazerCount int `json:"stargazer_count"`
	ForkCount      int `json:"fork_count"`
	DiskUsageKiB   int `json:"disk_usage_kib"`

	UpdatedAt time.Time `json:"updated_at"`
	PushedAt  time.Time `json:"pushed_at,omitempty"`

	PrimaryLanguage *Language `json:"primary_language,omitempty"`
	Parent          *Parent   `json:"parent,omitempty"`
	Owner           *Owner    `json:"owner,omitempty"`

	ViewerHasStarred bool `json:"viewer_has_starred"`

	// DefaultBranch is only populated when fork tracking fetched the
	// default branch ref; the fork-sync call uses it when present.
	DefaultBranch string `json:"default_branch,omitempty"`

	// CommitsBehind is only meaningful for forks when fork tracking is
	// enabled and both commit counts were present at fetch time.
	CommitsBehind    int  `json:"commits_behind,omitempty"`
	HasCommitsBehind bool `json:"has_commits_behind,omitempty"`
}

// Valid reports whether the record carries the fields every consumer
// relies on. Partially shaped cache entries are treated as absent.
func (r *Repo) Valid() bool {
	return r != nil && r.ID != "" && r.NameWithOwner != ""
}

// Clone returns a deep copy. Reconcilers patch copies and swap them into
// lists so unrelated readers never observe a half-applied update.
func (r *Repo) Clone() *Repo {
	if r == nil {
		return nil
	}
	c := *r
	if r.PrimaryLanguage != nil {
		lang := *r.PrimaryLanguage
		c.PrimaryLanguage = &lang
	}
	if r.Parent != nil {
		parent := *r.Parent
		c.Parent = &parent
	}
	if r.Owner != nil {
		owner := *r.Owner
		c.Owner = &owner
	}
	return &c
}
