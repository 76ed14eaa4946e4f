package github

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/source"
)

// scriptedRunner records gh invocations and returns canned output.
type scriptedRunner struct {
	output []byte
	err    error
	args   [][]string
}

func (s *scriptedRunner) run(ctx context.Context, args ...string) ([]byte, error) {
	s.args = append(s.args, args)
	if s.err != nil {
		return nil, s.err
	}
	return s.output, nil
}

func personalSpec() query.Spec {
	return query.Spec{
		Source:       query.SourcePersonal,
		Sort:         query.SortUpdated,
		Direction:    query.SortDesc,
		PageSize:     2,
		Affiliations: []query.Affiliation{query.AffiliationOwner},
	}
}

const personalResponse = `{
  "data": {
    "viewer": {
      "repositories": {
        "totalCount": 15,
        "pageInfo": {"endCursor": "abc", "hasNextPage": true},
        "nodes": [
          {
            "id": "R1",
            "name": "alpha",
            "nameWithOwner": "octo/alpha",
            "visibility": "PUBLIC",
            "isPrivate": false,
            "isArchived": false,
            "isFork": false,
            "stargazerCount": 12,
            "forkCount": 3,
            "diskUsage": 480,
            "updatedAt": "2026-08-20T10:00:00Z",
            "pushedAt": "2026-08-19T08:00:00Z",
            "viewerHasStarred": true,
            "primaryLanguage": {"name": "Go", "color": "#00ADD8"},
            "owner": {"__typename": "User", "login": "octo"}
          },
          {
            "id": "R2",
            "name": "beta-fork",
            "nameWithOwner": "octo/beta-fork",
            "visibility": "PRIVATE",
            "isPrivate": true,
            "isArchived": false,
            "isFork": true,
            "stargazerCount": 0,
            "forkCount": 0,
            "diskUsage": 100,
            "updatedAt": "2026-08-18T10:00:00Z",
            "pushedAt": "2026-08-18T10:00:00Z",
            "viewerHasStarred": false,
            "owner": {"__typename": "Organization", "login": "octo-org"},
            "parent": {
              "nameWithOwner": "up/beta",
              "defaultBranchRef": {"target": {"history": {"totalCount": 120}}}
            },
            "defaultBranchRef": {"name": "main", "target": {"history": {"totalCount": 113}}}
          }
        ]
      }
    },
    "rateLimit": {"limit": 5000, "remaining": 4982, "resetAt": "2026-08-24T13:00:00Z"}
  }
}`

func TestFetchPage_ParsesPersonalPage(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{output: []byte(personalResponse)}
	tr := &Transport{run: runner.run}

	spec := personalSpec()
	spec.ForkTracking = true
	page, err := tr.FetchPage(context.Background(), spec, "", source.PolicyNetworkOnly)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	if page.TotalCount != 15 || !page.HasNextPage || page.EndCursor != "abc" {
		t.Errorf("page meta = %d/%v/%q, want 15/true/abc", page.TotalCount, page.HasNextPage, page.EndCursor)
	}
	if page.RateLimit.Remaining != 4982 {
		t.Errorf("rate limit remaining = %d, want 4982", page.RateLimit.Remaining)
	}
	if len(page.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(page.Nodes))
	}

	alpha := page.Nodes[0]
	if alpha.ID != "R1" || alpha.PrimaryLanguage == nil || alpha.PrimaryLanguage.Name != "Go" {
		t.Errorf("unexpected first node: %+v", alpha)
	}
	if alpha.Owner == nil || alpha.Owner.Kind != "User" {
		t.Errorf("unexpected owner: %+v", alpha.Owner)
	}

	fork := page.Nodes[1]
	if fork.Parent == nil || fork.Parent.TotalCommits != 120 || !fork.Parent.HasTotalCommits {
		t.Errorf("unexpected parent snapshot: %+v", fork.Parent)
	}
	// 120 upstream - 113 local = 7 commits behind, computed at parse time.
	if fork.CommitsBehind != 7 || !fork.HasCommitsBehind {
		t.Errorf("behind = %d/%v, want 7/true", fork.CommitsBehind, fork.HasCommitsBehind)
	}
	if fork.DefaultBranch != "main" {
		t.Errorf("DefaultBranch = %q, want main", fork.DefaultBranch)
	}
}

func TestFetchPage_CachePolicyMapsToCacheFlag(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{output: []byte(personalResponse)}
	tr := &Transport{run: runner.run}

	if _, err := tr.FetchPage(context.Background(), personalSpec(), "", source.PolicyCacheFirst); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if _, err := tr.FetchPage(context.Background(), personalSpec(), "", source.PolicyNetworkOnly); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	first := strings.Join(runner.args[0], " ")
	if !strings.Contains(first, "--cache 30m") {
		t.Errorf("cache-first invocation missing --cache: %q", first)
	}
	second := strings.Join(runner.args[1], " ")
	if strings.Contains(second, "--cache") {
		t.Errorf("network-only invocation must not use --cache: %q", second)
	}
}

func TestFetchPage_CursorForwarded(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{output: []byte(personalResponse)}
	tr := &Transport{run: runner.run}

	if _, err := tr.FetchPage(context.Background(), personalSpec(), "abc", source.PolicyNetworkOnly); err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}

	joined := strings.Join(runner.args[0], " ")
	if !strings.Contains(joined, "after=abc") {
		t.Errorf("cursor not forwarded: %q", joined)
	}
}

func TestFetchPage_SearchQueryComposition(t *testing.T) {
	t.Parallel()

	spec := query.Spec{
		Source:     query.SourceSearch,
		SearchText: "tui in:name",
		Sort:       query.SortStars,
		Direction:  query.SortDesc,
		Visibility: query.VisibilityPublic,
		PageSize:   10,
	}

	got := searchQuery(spec)
	for _, want := range []string{"tui in:name", "is:public", "sort:stars-desc"} {
		if !strings.Contains(got, want) {
			t.Errorf("search query %q missing %q", got, want)
		}
	}
}

func TestFetchPage_SearchResponse(t *testing.T) {
	t.Parallel()

	searchResponse := `{
	  "data": {
	    "search": {
	      "repositoryCount": 42,
	      "pageInfo": {"endCursor": "s1", "hasNextPage": true},
	      "nodes": [{"id": "R9", "name": "gamma", "nameWithOwner": "a/gamma", "visibility": "PUBLIC"}]
	    },
	    "rateLimit": {"limit": 5000, "remaining": 4000, "resetAt": "2026-08-24T13:00:00Z"}
	  }
	}`
	runner := &scriptedRunner{output: []byte(searchResponse)}
	tr := &Transport{run: runner.run}

	page, err := tr.FetchPage(context.Background(), query.Spec{Source: query.SourceSearch, SearchText: "gamma"}, "", source.PolicyNetworkOnly)
	if err != nil {
		t.Fatalf("FetchPage() error = %v", err)
	}
	if page.TotalCount != 42 || len(page.Nodes) != 1 || page.Nodes[0].ID != "R9" {
		t.Errorf("unexpected search page: total=%d nodes=%d", page.TotalCount, len(page.Nodes))
	}
}

func TestFetchPage_MissingDataSection(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{output: []byte(`{"data": {}}`)}
	tr := &Transport{run: runner.run}

	if _, err := tr.FetchPage(context.Background(), personalSpec(), "", source.PolicyNetworkOnly); err == nil {
		t.Error("expected error for response without the requested section")
	}
}

func TestBuildQuery_AllSources(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec query.Spec
		want []string
	}{
		{
			name: "personal includes affiliations and privacy",
			spec: query.Spec{
				Source:       query.SourcePersonal,
				Sort:         query.SortUpdated,
				Direction:    query.SortDesc,
				Affiliations: []query.Affiliation{query.AffiliationOwner, query.AffiliationCollaborator},
				Visibility:   query.VisibilityPrivate,
			},
			want: []string{"viewer", "affiliations: [OWNER, COLLABORATOR]", "privacy: PRIVATE", "UPDATED_AT", "DESC"},
		},
		{
			name: "organization uses login variable",
			spec: query.Spec{Source: query.SourceOrganization, OrgLogin: "acme", Sort: query.SortName, Direction: query.SortAsc},
			want: []string{"organization(login: $login)", "NAME", "ASC"},
		},
		{
			name: "starred orders by starred-at",
			spec: query.Spec{Source: query.SourceStarred, Direction: query.SortDesc},
			want: []string{"starredRepositories", "STARRED_AT"},
		},
		{
			name: "search selects repository fragment",
			spec: query.Spec{Source: query.SourceSearch, SearchText: "x"},
			want: []string{"search(query: $q, type: REPOSITORY", "... on Repository"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gql, err := buildQuery(tt.spec)
			if err != nil {
				t.Fatalf("buildQuery() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(gql, want) {
					t.Errorf("query missing %q:\n%s", want, gql)
				}
			}
			if !strings.Contains(gql, "rateLimit") {
				t.Error("every query must request the rate limit snapshot")
			}
		})
	}
}

func TestRateLimitError(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{err: &RateLimitError{Detail: "RATE_LIMITED"}}
	tr := &Transport{run: runner.run}

	_, err := tr.FetchPage(context.Background(), personalSpec(), "", source.PolicyNetworkOnly)
	if !IsRateLimit(err) {
		t.Errorf("expected rate limit error, got %v", err)
	}
}

func TestRateLimited_Markers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		stderr string
		want   bool
	}{
		{"gh: API rate limit exceeded for user", true},
		{"GraphQL: API rate limit exceeded (RATE_LIMITED)", true},
		{"HTTP 429: too many requests", true},
		{"You have exceeded a secondary rate limit", true},
		{"gh: Not Found (HTTP 404)", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := rateLimited(tt.stderr); got != tt.want {
			t.Errorf("rateLimited(%q) = %v, want %v", tt.stderr, got, tt.want)
		}
	}
}

func TestRename_ParsesConfirmedName(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{output: []byte(`{"name": "renamed", "full_name": "octo/renamed"}`)}
	tr := &Transport{run: runner.run}

	got, err := tr.Rename(context.Background(), "octo/alpha", "renamed")
	if err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if got != "octo/renamed" {
		t.Errorf("Rename() = %q, want octo/renamed", got)
	}
}

func TestMutations_Invocations(t *testing.T) {
	t.Parallel()

	runner := &scriptedRunner{output: []byte(`{}`)}
	tr := &Transport{run: runner.run}
	ctx := context.Background()

	if err := tr.DeleteRepo(ctx, "octo/alpha"); err != nil {
		t.Fatalf("DeleteRepo() error = %v", err)
	}
	if err := tr.SetArchived(ctx, "R1", true); err != nil {
		t.Fatalf("SetArchived() error = %v", err)
	}
	if err := tr.SetVisibility(ctx, "octo/alpha", "PRIVATE"); err != nil {
		t.Fatalf("SetVisibility() error = %v", err)
	}
	if err := tr.SetStarred(ctx, "octo/alpha", false); err != nil {
		t.Fatalf("SetStarred() error = %v", err)
	}
	if err := tr.SyncFork(ctx, "octo/beta-fork", "main"); err != nil {
		t.Fatalf("SyncFork() error = %v", err)
	}

	joined := make([]string, len(runner.args))
	for i, args := range runner.args {
		joined[i] = strings.Join(args, " ")
	}

	wants := []string{
		"api -X DELETE repos/octo/alpha",
		"archiveRepository",
		"visibility=private",
		"api -X DELETE user/starred/octo/alpha",
		"repos/octo/beta-fork/merge-upstream",
	}
	for i, want := range wants {
		if !strings.Contains(joined[i], want) {
			t.Errorf("call %d = %q, want it to contain %q", i, joined[i], want)
		}
	}
}

func TestMutation_ErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("gh command failed: forbidden")
	runner := &scriptedRunner{err: boom}
	tr := &Transport{run: runner.run}

	if err := tr.DeleteRepo(context.Background(), "octo/alpha"); !errors.Is(err, boom) {
		t.Errorf("expected error to propagate, got %v", err)
	}
}
