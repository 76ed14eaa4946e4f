package doctor

import (
	"context"

	"github.com/cameronsjo/gh-manager-cli/internal/config"
	"github.com/cameronsjo/gh-manager-cli/internal/github"
	"github.com/cameronsjo/gh-manager-cli/internal/output"
)

// Run performs diagnostic checks and optionally fixes what it can.
func Run(ctx context.Context, cfg *config.Config, dir string, fix bool) error {
	out := output.FromContext(ctx)

	var allIssues []Issue

	out.Println("Checking environment...")
	envIssues := checkEnvironment(github.CheckGH(ctx))
	for i := range envIssues {
		envIssues[i].Category = CategoryEnvironment
	}
	allIssues = append(allIssues, envIssues...)

	out.Println("Checking configuration...")
	cfgIssues := checkConfig()
	for i := range cfgIssues {
		cfgIssues[i].Category = CategoryConfig
	}
	allIssues = append(allIssues, cfgIssues...)

	out.Println("Checking cached data...")
	dataIssues, stats := checkData(dir, cfg.Cache.MaxBytes)
	for i := range dataIssues {
		dataIssues[i].Category = CategoryData
	}
	allIssues = append(allIssues, dataIssues...)

	printSummary(ctx, stats, envIssues, cfgIssues)

	if len(allIssues) == 0 {
		out.Println("\n✓ No issues found")
		return nil
	}

	out.Printf("\nFound %d issues:\n", len(allIssues))
	printIssuesByCategory(ctx, allIssues)

	if fix {
		return fixAllIssues(ctx, allIssues, cfg.Cache.MaxBytes)
	}

	out.Println("\nRun 'ghm doctor --fix' to repair.")
	return nil
}

func fixAllIssues(ctx context.Context, issues []Issue, maxBytes int64) error {
	out := output.FromContext(ctx)
	out.Println()

	var failed int
	for _, issue := range issues {
		if issue.FixAction == "" {
			out.Printf("  - %s: needs manual attention\n", issue.Key)
			continue
		}
		if err := fixIssue(issue, maxBytes); err != nil {
			out.Printf("  ✗ %s: %v\n", issue.Key, err)
			failed++
			continue
		}
		out.Printf("  ✓ %s: fixed (%s)\n", issue.Key, issue.FixAction)
	}

	if failed > 0 {
		out.Printf("\n%d issues could not be fixed\n", failed)
	}
	return nil
}

// printSummary prints a categorized summary.
func printSummary(ctx context.Context, stats Stats, envIssues, cfgIssues []Issue) {
	out := output.FromContext(ctx)
	out.Println()

	if len(envIssues) == 0 {
		out.Println("  ✓ gh CLI installed and authenticated")
	}
	if len(cfgIssues) == 0 {
		out.Println("  ✓ configuration valid")
	}
	out.Printf("  ✓ %d repositories cached\n", stats.CachedRepos)
	if stats.FreshnessStale > 0 {
		out.Printf("  ⚠ %d of %d freshness records stale\n",
			stats.FreshnessStale, stats.FreshnessKeys+stats.FreshnessStale)
	} else {
		out.Printf("  ✓ %d freshness records\n", stats.FreshnessKeys)
	}
}

// printIssuesByCategory groups and prints issues.
func printIssuesByCategory(ctx context.Context, issues []Issue) {
	out := output.FromContext(ctx)

	byCategory := make(map[IssueCategory][]Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}

	categoryNames := map[IssueCategory]string{
		CategoryEnvironment: "Environment issues",
		CategoryConfig:      "Configuration issues",
		CategoryData:        "Data issues",
	}

	for _, cat := range []IssueCategory{CategoryEnvironment, CategoryConfig, CategoryData} {
		catIssues := byCategory[cat]
		if len(catIssues) == 0 {
			continue
		}

		out.Printf("\n%s:\n", categoryNames[cat])
		for _, issue := range catIssues {
			out.Printf("  • %s: %s\n", issue.Key, issue.Description)
		}
	}
}
