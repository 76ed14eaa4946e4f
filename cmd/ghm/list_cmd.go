package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/gh-manager-cli/internal/format"
	"github.com/cameronsjo/gh-manager-cli/internal/log"
	"github.com/cameronsjo/gh-manager-cli/internal/output"
	"github.com/cameronsjo/gh-manager-cli/internal/query"
	"github.com/cameronsjo/gh-manager-cli/internal/ui/static"
	"github.com/cameronsjo/gh-manager-cli/internal/ui/styles"
)

func newListCmd() *cobra.Command {
	var (
		srcName    string
		org        string
		search     string
		sortBy     string
		direction  string
		visibility string
		limit      int
		refresh    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List repositories to stdout",
		Aliases: []string{"ls"},
		GroupID: GroupBrowse,
		Args:    cobra.NoArgs,
		Long: `List repositories to stdout.

Non-interactive counterpart to 'ghm browse'. Results come from the same
cache, so a recent browse session answers instantly; --refresh forces a
network fetch.`,
		Example: `  ghm list                         # Personal repositories
  ghm list --source starred        # Starred repositories
  ghm list --org my-org --json     # Org repos as JSON
  ghm list --search "language:go"  # Server-side search`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			src, err := parseSource(srcName, org, search)
			if err != nil {
				return err
			}

			eng, err := newEngine(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := eng.cache.Flush(); err != nil {
					l.Printf("Warning: repo cache save failed: %v\n", err)
				}
			}()

			spec, err := buildSpec(src, org, search, sortBy, direction, visibility)
			if err != nil {
				return err
			}

			acc := eng.set.For(src)
			acc.SetSpec(spec)
			if err := acc.FetchFirst(ctx, refresh); err != nil {
				return err
			}
			for acc.HasNextPage() && acc.Len() < limit {
				if err := acc.FetchNext(ctx); err != nil {
					return err
				}
			}

			items := acc.Items()
			if len(items) > limit {
				items = items[:limit]
			}

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}

			if len(items) == 0 {
				l.Println("No repositories found")
				return nil
			}

			headers := []string{"NAME", "VISIBILITY", "LANGUAGE", "STARS", "SIZE", "UPDATED"}
			rows := make([][]string, 0, len(items))
			for _, r := range items {
				lang := "-"
				if r.PrimaryLanguage != nil {
					lang = r.PrimaryLanguage.Name
				}
				rows = append(rows, []string{
					r.NameWithOwner,
					styles.FormatVisibility(r.Visibility, r.IsArchived),
					lang,
					format.CompactCount(r.StargazerCount),
					format.DiskSize(r.DiskUsageKiB),
					format.RelativeTime(r.UpdatedAt),
				})
			}
			out.Print(static.RenderTable(headers, rows))

			if acc.HasNextPage() {
				l.Printf("Showing %d of %d repositories (raise --limit for more)\n", len(items), acc.TotalCount())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&srcName, "source", "personal", "Source: personal, org, search, or starred")
	cmd.Flags().StringVar(&org, "org", "", "Organization login (implies --source org)")
	cmd.Flags().StringVar(&search, "search", "", "Search query (implies --source search)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort field: updated, pushed, name, or stars")
	cmd.Flags().StringVar(&direction, "direction", "", "Sort direction: asc or desc")
	cmd.Flags().StringVar(&visibility, "visibility", "", "Visibility filter: public or private")
	cmd.Flags().IntVar(&limit, "limit", 100, "Maximum repositories to list")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache and fetch from the API")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	cmd.RegisterFlagCompletionFunc("source", cobra.FixedCompletions(
		[]string{"personal", "org", "search", "starred"}, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("sort", cobra.FixedCompletions(
		[]string{"updated", "pushed", "name", "stars"}, cobra.ShellCompDirectiveNoFileComp))
	cmd.RegisterFlagCompletionFunc("direction", cobra.FixedCompletions(
		[]string{"asc", "desc"}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// parseSource resolves the requested source, letting --org and --search
// imply theirs so the common cases need only one flag.
func parseSource(name, org, search string) (query.Source, error) {
	switch strings.ToLower(name) {
	case "", "personal":
		if org != "" {
			return query.SourceOrganization, nil
		}
		if search != "" {
			return query.SourceSearch, nil
		}
		return query.SourcePersonal, nil
	case "org", "organization":
		if org == "" {
			return "", fmt.Errorf("--source org requires --org")
		}
		return query.SourceOrganization, nil
	case "search":
		if search == "" {
			return "", fmt.Errorf("--source search requires --search")
		}
		return query.SourceSearch, nil
	case "starred":
		return query.SourceStarred, nil
	default:
		return "", fmt.Errorf("invalid source %q: must be personal, org, search, or starred", name)
	}
}

func buildSpec(src query.Source, org, search, sortBy, direction, visibility string) (query.Spec, error) {
	spec := query.Spec{
		Source:       src,
		Sort:         cfg.SortField(),
		Direction:    cfg.SortDirection(),
		PageSize:     cfg.PageSize,
		ForkTracking: cfg.ForkTracking,
		Visibility:   cfg.VisibilityFilter(),
	}

	switch src {
	case query.SourcePersonal:
		spec.Affiliations = []query.Affiliation{query.AffiliationOwner}
	case query.SourceOrganization:
		spec.OrgLogin = org
	case query.SourceSearch:
		spec.SearchText = search
	}

	switch strings.ToLower(sortBy) {
	case "":
	case "updated":
		spec.Sort = query.SortUpdated
	case "pushed":
		spec.Sort = query.SortPushed
	case "name":
		spec.Sort = query.SortName
	case "stars":
		spec.Sort = query.SortStars
	default:
		return spec, fmt.Errorf("invalid sort %q: must be updated, pushed, name, or stars", sortBy)
	}

	switch strings.ToLower(direction) {
	case "":
	case "asc":
		spec.Direction = query.SortAsc
	case "desc":
		spec.Direction = query.SortDesc
	default:
		return spec, fmt.Errorf("invalid direction %q: must be asc or desc", direction)
	}

	switch strings.ToLower(visibility) {
	case "":
	case "public":
		spec.Visibility = query.VisibilityPublic
	case "private":
		spec.Visibility = query.VisibilityPrivate
	default:
		return spec, fmt.Errorf("invalid visibility %q: must be public or private", visibility)
	}

	return spec, nil
}
