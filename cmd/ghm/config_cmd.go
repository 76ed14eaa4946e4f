package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/gh-manager-cli/internal/config"
	"github.com/cameronsjo/gh-manager-cli/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage ghm configuration.

Config location: ~/.config/ghm/config.toml`,
		Example: `  ghm config init   # Create default config
  ghm config show   # Show effective config
  ghm config path   # Print the config file path`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  ghm config init      # Create config at ~/.config/ghm/config.toml
  ghm config init -f   # Overwrite existing config
  ghm config init -s   # Print default config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if stdout {
				out.Print(config.DefaultFileContent())
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				return err
			}
			out.Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Args:  cobra.NoArgs,
		Long: `Show effective configuration.

Values come from ~/.config/ghm/config.toml overlaid with environment
overrides (GHM_DATA_DIR); anything unset falls back to defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}

			dir := cfg.DataDir
			if dir == "" {
				dir = "~/.ghm (default)"
			}
			out.Printf("data_dir: %s\n", dir)
			out.Printf("page_size: %d\n", cfg.PageSize)
			out.Printf("default_sort: %s\n", cfg.DefaultSort)
			out.Printf("default_direction: %s\n", cfg.DefaultDirection)
			if cfg.Visibility != "" {
				out.Printf("visibility: %s\n", cfg.Visibility)
			}
			if cfg.Org != "" {
				out.Printf("org: %s\n", cfg.Org)
			}
			out.Printf("fork_tracking: %v\n", cfg.ForkTracking)
			out.Printf("overscan: %d\n", cfg.Overscan)
			out.Printf("prefetch_threshold: %v\n", cfg.PrefetchAt)
			out.Printf("cache.list_ttl: %s\n", cfg.Cache.ListTTL.Std())
			out.Printf("cache.search_ttl: %s\n", cfg.Cache.SearchTTL.Std())
			out.Printf("cache.max_bytes: %d\n", cfg.Cache.MaxBytes)
			if cfg.Theme.Name != "" {
				out.Printf("theme.name: %s\n", cfg.Theme.Name)
			}
			if cfg.Theme.Mode != "" {
				out.Printf("theme.mode: %s\n", cfg.Theme.Mode)
			}
			out.Printf("theme.nerdfont: %v\n", cfg.Theme.Nerdfont)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			output.FromContext(cmd.Context()).Println(path)
			return nil
		},
	}
}
