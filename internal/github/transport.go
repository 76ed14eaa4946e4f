// Package github implements the page transport and mutation calls on top
// of the gh CLI. All GitHub access goes through this package; nothing
// else in the repo invokes gh directly.
//
// Pages are fetched with "gh api graphql". A cache-first policy is
// forwarded to gh's own response cache via --cache, so repeat queries
// inside the freshness window cost no quota; network-only omits the flag.
// Retry, backoff, and timeouts are gh's business, not ours.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/cmd"
	"github.com/cameronsjo/gh-manager-cli/internal/model"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/source"
)

// runner executes a gh invocation and returns stdout. Injectable so tests
// can script responses without a gh binary.
type runner func(ctx context.Context, args ...string) ([]byte, error)

// Transport fetches repository pages and applies mutations via gh.
type Transport struct {
	run runner
}

// NewTransport creates a gh-backed transport.
func NewTransport() *Transport {
	return &Transport{run: runGH}
}

// CheckGH verifies that gh CLI is available and authenticated.
func CheckGH(ctx context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return ErrGHNotFound
	}

	// gh auth status exits non-zero when not authenticated
	if err := cmd.RunContext(ctx, "", "gh", "auth", "status"); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no accounts") {
			return ErrGHNotAuthenticated
		}
		return fmt.Errorf("gh auth check failed: %w", err)
	}

	return nil
}

// runGH executes gh and maps quota exhaustion to RateLimitError.
func runGH(ctx context.Context, args ...string) ([]byte, error) {
	output, err := cmd.OutputContext(ctx, "", "gh", args...)
	if err != nil {
		if rateLimited(err.Error()) {
			return nil, &RateLimitError{Detail: err.Error()}
		}
		return nil, fmt.Errorf("gh command failed: %w", err)
	}
	return output, nil
}

// repoFields is the GraphQL selection shared by every source. The parent
// commit count is the snapshot the reconciler uses to recompute the
// behind-count locally after a fork sync.
const repoFields = `
id
name
nameWithOwner
visibility
isPrivate
isArchived
isFork
stargazerCount
forkCount
diskUsage
updatedAt
pushedAt
viewerHasStarred
primaryLanguage { name color }
owner { __typename login }
parent {
  nameWithOwner
  defaultBranchRef { target { ... on Commit { history { totalCount } } } }
}`

// forkFields is added when fork tracking is on: the fork's own commit
// count, compared against the parent's, yields commits-behind.
const forkFields = `
defaultBranchRef { name target { ... on Commit { history { totalCount } } } }`

const rateLimitFields = `rateLimit { limit remaining resetAt }`

// FetchPage implements source.Transport.
func (t *Transport) FetchPage(ctx context.Context, spec query.Spec, cursor string, policy source.FetchPolicy) (*source.Page, error) {
	gql, err := buildQuery(spec)
	if err != nil {
		return nil, err
	}

	args := []string{"api", "graphql"}
	if policy == source.PolicyCacheFirst {
		args = append(args, "--cache", cacheWindow(spec))
	}
	args = append(args, "-f", "query="+gql)
	args = append(args, "-F", fmt.Sprintf("first=%d", pageSize(spec)))
	if cursor != "" {
		args = append(args, "-f", "after="+cursor)
	}
	switch spec.Source {
	case query.SourceOrganization:
		args = append(args, "-f", "login="+spec.OrgLogin)
	case query.SourceSearch:
		args = append(args, "-f", "q="+searchQuery(spec))
	}

	output, err := t.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parsePage(output, spec)
}

func pageSize(spec query.Spec) int {
	if spec.PageSize > 0 {
		return spec.PageSize
	}
	return 50
}

// cacheWindow maps the spec's freshness class to a gh --cache TTL.
func cacheWindow(spec query.Spec) string {
	if spec.Source == query.SourceSearch {
		return "90s"
	}
	return "30m"
}

// buildQuery assembles the GraphQL document for a source. Sort, direction,
// affiliation, and privacy values come from our own closed enums and are
// interpolated directly; only user text (cursor, org login, search query)
// travels as variables.
func buildQuery(spec query.Spec) (string, error) {
	fields := repoFields
	if spec.ForkTracking {
		fields += forkFields
	}

	switch spec.Source {
	case query.SourcePersonal:
		return fmt.Sprintf(`query($first: Int!, $after: String) {
  viewer {
    repositories(first: $first, after: $after, orderBy: {field: %s, direction: %s}%s%s) {
      totalCount
      pageInfo { endCursor hasNextPage }
      nodes {%s}
    }
  }
  %s
}`, spec.Sort, spec.Direction, affiliationArg(spec), privacyArg(spec), fields, rateLimitFields), nil

	case query.SourceOrganization:
		return fmt.Sprintf(`query($first: Int!, $after: String, $login: String!) {
  organization(login: $login) {
    repositories(first: $first, after: $after, orderBy: {field: %s, direction: %s}%s) {
      totalCount
      pageInfo { endCursor hasNextPage }
      nodes {%s}
    }
  }
  %s
}`, spec.Sort, spec.Direction, privacyArg(spec), fields, rateLimitFields), nil

	case query.SourceSearch:
		return fmt.Sprintf(`query($first: Int!, $after: String, $q: String!) {
  search(query: $q, type: REPOSITORY, first: $first, after: $after) {
    repositoryCount
    pageInfo { endCursor hasNextPage }
    nodes { ... on Repository {%s} }
  }
  %s
}`, fields, rateLimitFields), nil

	case query.SourceStarred:
		return fmt.Sprintf(`query($first: Int!, $after: String) {
  viewer {
    starredRepositories(first: $first, after: $after, orderBy: {field: STARRED_AT, direction: %s}) {
      totalCount
      pageInfo { endCursor hasNextPage }
      nodes {%s}
    }
  }
  %s
}`, spec.Direction, fields, rateLimitFields), nil
	}

	return "", fmt.Errorf("unknown source %q", spec.Source)
}

func affiliationArg(spec query.Spec) string {
	if len(spec.Affiliations) == 0 {
		return ""
	}
	affs := make([]string, len(spec.Affiliations))
	for i, a := range spec.Affiliations {
		affs[i] = string(a)
	}
	return ", affiliations: [" + strings.Join(affs, ", ") + "]"
}

func privacyArg(spec query.Spec) string {
	if spec.Visibility == query.VisibilityAll {
		return ""
	}
	return ", privacy: " + string(spec.Visibility)
}

// searchQuery appends the sort qualifier; search has no orderBy argument.
func searchQuery(spec query.Spec) string {
	qualifier := ""
	switch spec.Sort {
	case query.SortUpdated, query.SortPushed:
		qualifier = "sort:updated"
	case query.SortStars:
		qualifier = "sort:stars"
	case query.SortName:
		// Best-match order; search cannot sort by name.
	}
	if qualifier != "" {
		if spec.Direction == query.SortAsc {
			qualifier += "-asc"
		} else {
			qualifier += "-desc"
		}
	}
	text := spec.SearchText
	if spec.Visibility == query.VisibilityPublic {
		text += " is:public"
	} else if spec.Visibility == query.VisibilityPrivate {
		text += " is:private"
	}
	if qualifier != "" {
		text += " " + qualifier
	}
	return strings.TrimSpace(text)
}

// Wire shapes for the GraphQL response.

type commitHistory struct {
	Name   string `json:"name"`
	Target struct {
		History struct {
			TotalCount int `json:"totalCount"`
		} `json:"history"`
	} `json:"target"`
}

type repoNode struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	NameWithOwner    string    `json:"nameWithOwner"`
	Visibility       string    `json:"visibility"`
	IsPrivate        bool      `json:"isPrivate"`
	IsArchived       bool      `json:"isArchived"`
	IsFork           bool      `json:"isFork"`
	StargazerCount   int       `json:"stargazerCount"`
	ForkCount        int       `json:"forkCount"`
	DiskUsage        int       `json:"diskUsage"`
	UpdatedAt        time.Time `json:"updatedAt"`
	PushedAt         time.Time `json:"pushedAt"`
	ViewerHasStarred bool      `json:"viewerHasStarred"`
	PrimaryLanguage  *struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	} `json:"primaryLanguage"`
	Owner *struct {
		Typename string `json:"__typename"`
		Login    string `json:"login"`
	} `json:"owner"`
	Parent *struct {
		NameWithOwner    string         `json:"nameWithOwner"`
		DefaultBranchRef *commitHistory `json:"defaultBranchRef"`
	} `json:"parent"`
	DefaultBranchRef *commitHistory `json:"defaultBranchRef"`
}

type connection struct {
	TotalCount int `json:"totalCount"`
	PageInfo   struct {
		EndCursor   string `json:"endCursor"`
		HasNextPage bool   `json:"hasNextPage"`
	} `json:"pageInfo"`
	Nodes []repoNode `json:"nodes"`
}

type rateLimitNode struct {
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"resetAt"`
}

type pageResponse struct {
	Data struct {
		Viewer *struct {
			Repositories        *connection `json:"repositories"`
			StarredRepositories *connection `json:"starredRepositories"`
		} `json:"viewer"`
		Organization *struct {
			Repositories *connection `json:"repositories"`
		} `json:"organization"`
		Search *struct {
			RepositoryCount int `json:"repositoryCount"`
			PageInfo        struct {
				EndCursor   string `json:"endCursor"`
				HasNextPage bool   `json:"hasNextPage"`
			} `json:"pageInfo"`
			Nodes []repoNode `json:"nodes"`
		} `json:"search"`
		RateLimit rateLimitNode `json:"rateLimit"`
	} `json:"data"`
}

func parsePage(output []byte, spec query.Spec) (*source.Page, error) {
	var resp pageResponse
	if err := json.Unmarshal(output, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}

	var conn *connection
	switch spec.Source {
	case query.SourcePersonal:
		if resp.Data.Viewer != nil {
			conn = resp.Data.Viewer.Repositories
		}
	case query.SourceOrganization:
		if resp.Data.Organization != nil {
			conn = resp.Data.Organization.Repositories
		}
	case query.SourceStarred:
		if resp.Data.Viewer != nil {
			conn = resp.Data.Viewer.StarredRepositories
		}
	case query.SourceSearch:
		if resp.Data.Search != nil {
			conn = &connection{
				TotalCount: resp.Data.Search.RepositoryCount,
				PageInfo:   resp.Data.Search.PageInfo,
				Nodes:      resp.Data.Search.Nodes,
			}
		}
	}
	if conn == nil {
		return nil, fmt.Errorf("gh response missing %s data", spec.Source)
	}

	page := &source.Page{
		EndCursor:   conn.PageInfo.EndCursor,
		HasNextPage: conn.PageInfo.HasNextPage,
		TotalCount:  conn.TotalCount,
		RateLimit: source.RateLimit{
			Limit:     resp.Data.RateLimit.Limit,
			Remaining: resp.Data.RateLimit.Remaining,
			ResetAt:   resp.Data.RateLimit.ResetAt,
		},
	}
	for _, node := range conn.Nodes {
		if r := node.toModel(spec.ForkTracking); r.Valid() {
			page.Nodes = append(page.Nodes, r)
		}
	}
	return page, nil
}

func (n repoNode) toModel(forkTracking bool) *model.Repo {
	r := &model.Repo{
		ID:               n.ID,
		Name:             n.Name,
		NameWithOwner:    n.NameWithOwner,
		Visibility:       model.Visibility(n.Visibility),
		IsPrivate:        n.IsPrivate,
		IsArchived:       n.IsArchived,
		IsFork:           n.IsFork,
		StargazerCount:   n.StargazerCount,
		ForkCount:        n.ForkCount,
		DiskUsageKiB:     n.DiskUsage,
		UpdatedAt:        n.UpdatedAt,
		PushedAt:         n.PushedAt,
		ViewerHasStarred: n.ViewerHasStarred,
	}
	if n.PrimaryLanguage != nil {
		r.PrimaryLanguage = &model.Language{Name: n.PrimaryLanguage.Name, Color: n.PrimaryLanguage.Color}
	}
	if n.Owner != nil {
		kind := model.OwnerUser
		if n.Owner.Typename == "Organization" {
			kind = model.OwnerOrganization
		}
		r.Owner = &model.Owner{Kind: kind, Login: n.Owner.Login}
	}
	if n.DefaultBranchRef != nil {
		r.DefaultBranch = n.DefaultBranchRef.Name
	}
	if n.Parent != nil {
		parent := &model.Parent{NameWithOwner: n.Parent.NameWithOwner}
		if n.Parent.DefaultBranchRef != nil {
			parent.TotalCommits = n.Parent.DefaultBranchRef.Target.History.TotalCount
			parent.HasTotalCommits = true
		}
		r.Parent = parent

		if forkTracking && parent.HasTotalCommits && n.DefaultBranchRef != nil {
			behind := parent.TotalCommits - n.DefaultBranchRef.Target.History.TotalCount
			if behind < 0 {
				behind = 0
			}
			r.CommitsBehind = behind
			r.HasCommitsBehind = true
		}
	}
	return r
}
