package github

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Mutations are applied through gh and return only once the API has
// confirmed them; the caller then feeds the confirmed outcome to the
// reconciler. Each call either succeeds or returns a transport error
// (RateLimitError for quota exhaustion).

// DeleteRepo permanently deletes a repository. Requires the delete_repo
// scope on the gh token.
func (t *Transport) DeleteRepo(ctx context.Context, nameWithOwner string) error {
	_, err := t.run(ctx, "api", "-X", "DELETE", "repos/"+nameWithOwner)
	return err
}

const archiveMutation = `mutation($id: ID!) {
  archiveRepository(input: {repositoryId: $id}) { repository { id } }
}`

const unarchiveMutation = `mutation($id: ID!) {
  unarchiveRepository(input: {repositoryId: $id}) { repository { id } }
}`

// SetArchived archives or unarchives a repository by node id.
func (t *Transport) SetArchived(ctx context.Context, id string, archived bool) error {
	gql := archiveMutation
	if !archived {
		gql = unarchiveMutation
	}
	_, err := t.run(ctx, "api", "graphql", "-f", "query="+gql, "-f", "id="+id)
	return err
}

// SetVisibility changes a repository's visibility. visibility is the
// API enum in lower case (public, private, internal).
func (t *Transport) SetVisibility(ctx context.Context, nameWithOwner, visibility string) error {
	_, err := t.run(ctx, "api", "-X", "PATCH", "repos/"+nameWithOwner,
		"-f", "visibility="+strings.ToLower(visibility))
	return err
}

// Rename renames a repository and returns the confirmed new qualified
// name as reported by the API.
func (t *Transport) Rename(ctx context.Context, nameWithOwner, newName string) (string, error) {
	output, err := t.run(ctx, "api", "-X", "PATCH", "repos/"+nameWithOwner,
		"-f", "name="+newName)
	if err != nil {
		return "", err
	}

	var resp struct {
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal(output, &resp); err != nil {
		return "", fmt.Errorf("failed to parse gh output: %w", err)
	}
	if resp.FullName == "" {
		return "", fmt.Errorf("rename response missing full_name")
	}
	return resp.FullName, nil
}

// SetStarred stars or unstars a repository for the viewer.
func (t *Transport) SetStarred(ctx context.Context, nameWithOwner string, starred bool) error {
	method := "PUT"
	if !starred {
		method = "DELETE"
	}
	_, err := t.run(ctx, "api", "-X", method, "user/starred/"+nameWithOwner)
	return err
}

// SyncFork fast-forwards a fork's branch from its upstream. branch may be
// empty for the default branch.
func (t *Transport) SyncFork(ctx context.Context, nameWithOwner, branch string) error {
	args := []string{"api", "-X", "POST", "repos/" + nameWithOwner + "/merge-upstream"}
	if branch != "" {
		args = append(args, "-f", "branch="+branch)
	}
	_, err := t.run(ctx, args...)
	return err
}
