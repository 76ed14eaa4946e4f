package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/gh-manager-cli/internal/config"
	"github.com/cameronsjo/gh-manager-cli/internal/freshness"
	"github.com/cameronsjo/gh-manager-cli/internal/github"
	"github.com/cameronsjo/gh-manager-cli/internal/log"
	"github.com/cameronsjo/gh-manager-cli/internal/output"
	"github.com/cameronsjo/gh-manager-cli/internal/reconcile"
	"github.com/cameronsjo/gh-manager-cli/internal/repocache"
	"github.com/cameronsjo/gh-manager-cli/internal/source"
	"github.com/cameronsjo/gh-manager-cli/internal/storage"
	"github.com/cameronsjo/gh-manager-cli/internal/ui/styles"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg *config.Config
)

// Command group IDs for organizing help output
const (
	GroupBrowse = "browse"
	GroupData   = "data"
	GroupConfig = "config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ghm",
	Short: "Terminal GitHub repository manager",
	Long: `ghm is a terminal UI for browsing and managing your GitHub repositories.

It lists personal, organization, starred, and searched repositories with
cached pages for instant startup, and applies mutations (archive, rename,
visibility, star, delete, fork sync) straight from the list.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that never talk to the API skip the gh check
		switch cmd.Name() {
		// doctor reports a broken gh setup itself instead of dying on it
		case "completion", "__complete", "help", "version", "doctor", "init", "path", "show", "clear", "stats":
			return nil
		}

		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		return github.CheckGH(cmd.Context())
	},
	// Run is not set - shows help when no subcommand provided
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	// Theme must be applied before any styled output
	styles.Init(cfg.Theme)

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create logger (stderr for diagnostics)
	logger := log.New(os.Stderr, verbose, quiet)
	ctx = log.WithLogger(ctx, logger)

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Run 'ghm -h' for help")
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show diagnostic output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Add command groups for organized help output
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupBrowse, Title: "Browse Commands:"},
		&cobra.Group{ID: GroupData, Title: "Data Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newListCmd())

	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newDoctorCmd())

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())
}

// engine bundles the shared collaborators behind every data command.
type engine struct {
	dir   string
	cache *repocache.Cache
	fresh *freshness.Store
	set   *source.Set
	rec   *reconcile.Reconciler
	gh    *github.Transport
}

// dataDir resolves where ghm keeps its cache files.
func dataDir() (string, error) {
	if cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return "", err
		}
		return cfg.DataDir, nil
	}
	return storage.AppDir()
}

// newEngine wires the cache, freshness store, accumulators, and
// reconciler against the gh transport.
func newEngine(ctx context.Context) (*engine, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	l := log.FromContext(ctx)
	cache := repocache.Open(repocache.Path(dir),
		repocache.WithMaxBytes(int(cfg.Cache.MaxBytes)),
		repocache.WithWarnf(func(format string, args ...any) {
			l.Printf("Warning: "+format+"\n", args...)
		}),
	)
	fresh := freshness.Load(freshness.Path(dir))
	gh := github.NewTransport()
	set := source.NewSet(gh, fresh, cache, cfg.Cache.ListTTL.Std(), cfg.Cache.SearchTTL.Std())

	return &engine{
		dir:   dir,
		cache: cache,
		fresh: fresh,
		set:   set,
		rec:   reconcile.New(cache, set),
		gh:    gh,
	}, nil
}
