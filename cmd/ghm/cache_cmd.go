package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/gh-manager-cli/internal/format"
	"github.com/cameronsjo/gh-manager-cli/internal/freshness"
	"github.com/cameronsjo/gh-manager-cli/internal/output"
	"github.com/cameronsjo/gh-manager-cli/internal/repocache"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cache",
		Short:   "Inspect and manage the repository cache",
		GroupID: GroupData,
		Long: `Inspect and manage the repository cache.

ghm keeps two files in its data directory: repos.json (one record per
repository, shared by every view) and freshness.json (when each query
last hit the API). Clearing them only costs a refetch.`,
		Example: `  ghm cache path    # Print the data directory
  ghm cache stats   # Show entry counts and file sizes
  ghm cache clear   # Drop cached data`,
	}

	cmd.AddCommand(newCachePathCmd())
	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir()
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Println(dir)
			return nil
		},
	}
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and file sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir()
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())

			repoPath := repocache.Path(dir)
			cache := repocache.Open(repoPath)
			fresh := freshness.Load(freshness.Path(dir))

			out.Printf("Data directory: %s\n\n", dir)
			out.Printf("Repositories:   %d cached (%s on disk, cap %s)\n",
				cache.Len(), fileSize(repoPath), format.DiskSize(int(cfg.Cache.MaxBytes/1024)))
			out.Printf("Freshness keys: %d (list ttl %s, search ttl %s)\n",
				fresh.Len(), cfg.Cache.ListTTL.Std(), cfg.Cache.SearchTTL.Std())
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	var freshOnly bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop cached data",
		Args:  cobra.NoArgs,
		Long: `Drop cached data.

Removes the repository cache and freshness records. With --freshness the
repository records stay and only the freshness records go, which forces
the next fetch to hit the API without losing instant startup data.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir()
			if err != nil {
				return err
			}
			out := output.FromContext(cmd.Context())

			fresh := freshness.Load(freshness.Path(dir))
			if err := fresh.Clear(); err != nil {
				return fmt.Errorf("clear freshness records: %w", err)
			}
			if freshOnly {
				out.Println("Cleared freshness records")
				return nil
			}

			if err := os.Remove(repocache.Path(dir)); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove repo cache: %w", err)
			}
			out.Println("Cleared repository cache and freshness records")
			return nil
		},
	}

	cmd.Flags().BoolVar(&freshOnly, "freshness", false, "Clear only freshness records")

	return cmd
}

// fileSize formats the on-disk size of path, or "-" when absent.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "-"
	}
	return format.DiskSize(int(info.Size() / 1024))
}
