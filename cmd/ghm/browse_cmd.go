package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/gh-manager-cli/internal/log"
	"github.com/cameronsjo/gh-manager-cli/internal/ui"
)

func newBrowseCmd() *cobra.Command {
	var (
		org    string
		search string
	)

	cmd := &cobra.Command{
		Use:     "browse",
		Short:   "Open the interactive repository browser",
		Aliases: []string{"ui"},
		GroupID: GroupBrowse,
		Args:    cobra.NoArgs,
		Long: `Open the interactive repository browser.

Switch between personal, organization, search, and starred views with
tab or 1-4. Repository actions (archive, rename, visibility, star,
delete, fork sync) run against the row under the cursor. Press ? inside
the browser for the full key map.`,
		Example: `  ghm browse                  # Start on the personal view
  ghm browse --org my-org     # Preselect an organization
  ghm browse --search "cli"   # Seed the search view`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
				return fmt.Errorf("browse needs an interactive terminal; use 'ghm list' for scripted output")
			}

			ctx := cmd.Context()
			eng, err := newEngine(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := eng.cache.Flush(); err != nil {
					log.FromContext(ctx).Printf("Warning: repo cache save failed: %v\n", err)
				}
			}()

			runCfg := *cfg
			if org != "" {
				runCfg.Org = org
			}
			opts := ui.BrowseOptions{
				Config:     runCfg,
				Sources:    eng.set,
				Reconciler: eng.rec,
				Transport:  eng.gh,
				Search:     search,
			}
			return ui.RunBrowse(ctx, opts)
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "Organization to preselect")
	cmd.Flags().StringVar(&search, "search", "", "Seed the search view with a query")

	return cmd
}
