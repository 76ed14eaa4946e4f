package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/config"
	"github.com/cameronsjo/gh-manager-cli/internal/freshness"
	"github.com/cameronsjo/gh-manager-cli/internal/repocache"
	"github.com/cameronsjo/gh-manager-cli/internal/storage"
)

// freshnessMaxAge is the retention horizon for freshness records. A key
// this old refers to a query nobody has run for a week; keeping it only
// grows the file.
const freshnessMaxAge = 7 * 24 * time.Hour

// checkEnvironment verifies the gh CLI is installed and authenticated.
func checkEnvironment(authErr error) []Issue {
	var issues []Issue

	if _, err := exec.LookPath("gh"); err != nil {
		issues = append(issues, Issue{
			Key:         "gh",
			Description: "gh CLI not found in PATH (install from https://cli.github.com)",
		})
		return issues
	}

	if authErr != nil {
		issues = append(issues, Issue{
			Key:         "gh auth",
			Description: fmt.Sprintf("not authenticated: %v (run 'gh auth login')", authErr),
		})
	}

	return issues
}

// checkConfig verifies the config file parses and validates.
func checkConfig() []Issue {
	path, err := config.Path()
	if err != nil {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		// No config file is fine, defaults apply.
		return nil
	}

	if _, err := config.Load(); err != nil {
		return []Issue{{
			Key:         path,
			Description: err.Error(),
		}}
	}
	return nil
}

// rawCacheFile mirrors the repo cache disk format loosely enough to
// count entries without depending on the record shape.
type rawCacheFile struct {
	Entries map[string]json.RawMessage `json:"entries"`
}

// checkData inspects the cache files in dir.
func checkData(dir string, maxBytes int64) ([]Issue, Stats) {
	var issues []Issue
	var stats Stats

	repoPath := repocache.Path(dir)
	if info, err := os.Stat(repoPath); err == nil {
		var raw rawCacheFile
		if err := storage.LoadJSON(repoPath, &raw); err != nil {
			issues = append(issues, Issue{
				Key:         "repos.json",
				Description: fmt.Sprintf("corrupt repo cache: %v", err),
				FixAction:   FixRemove,
				Path:        repoPath,
			})
		} else {
			stats.CachedRepos = len(raw.Entries)
			if info.Size() > maxBytes {
				issues = append(issues, Issue{
					Key:         "repos.json",
					Description: fmt.Sprintf("repo cache is %d bytes, over the %d byte cap", info.Size(), maxBytes),
					FixAction:   FixCompact,
					Path:        repoPath,
				})
			}
		}
	}

	freshPath := freshness.Path(dir)
	if _, err := os.Stat(freshPath); err == nil {
		var entries map[string]time.Time
		if err := storage.LoadJSON(freshPath, &entries); err != nil {
			issues = append(issues, Issue{
				Key:         "freshness.json",
				Description: fmt.Sprintf("corrupt freshness store: %v", err),
				FixAction:   FixRemove,
				Path:        freshPath,
			})
		} else {
			for _, fetchedAt := range entries {
				if time.Since(fetchedAt) > freshnessMaxAge {
					stats.FreshnessStale++
				} else {
					stats.FreshnessKeys++
				}
			}
			if stats.FreshnessStale > 0 {
				issues = append(issues, Issue{
					Key:         "freshness.json",
					Description: fmt.Sprintf("%d freshness records older than %s", stats.FreshnessStale, freshnessMaxAge),
					FixAction:   FixPrune,
					Path:        freshPath,
				})
			}
		}
	}

	return issues, stats
}
