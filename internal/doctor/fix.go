package doctor

import (
	"fmt"
	"os"
	"time"

	"github.com/cameronsjo/gh-manager-cli/internal/repocache"
	"github.com/cameronsjo/gh-manager-cli/internal/storage"
)

// fixIssue applies the declared fix action for one issue.
func fixIssue(issue Issue, maxBytes int64) error {
	switch issue.FixAction {
	case FixRemove:
		if err := os.Remove(issue.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", issue.Key, err)
		}
		return nil

	case FixPrune:
		var entries map[string]time.Time
		if err := storage.LoadJSON(issue.Path, &entries); err != nil {
			return fmt.Errorf("load %s: %w", issue.Key, err)
		}
		for key, fetchedAt := range entries {
			if time.Since(fetchedAt) > freshnessMaxAge {
				delete(entries, key)
			}
		}
		return storage.SaveJSON(issue.Path, entries)

	case FixCompact:
		// Open applies the size cap on save, evicting the oldest entries.
		cache := repocache.Open(issue.Path,
			repocache.WithMaxBytes(int(maxBytes)),
			repocache.WithDebounce(0),
		)
		return cache.Flush()

	default:
		return fmt.Errorf("%s: no automatic fix", issue.Key)
	}
}
