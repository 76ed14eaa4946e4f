package main

import (
	"github.com/spf13/cobra"

	"github.com/cameronsjo/gh-manager-cli/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Diagnose the ghm environment and cached data",
		GroupID: GroupData,
		Args:    cobra.NoArgs,
		Long: `Diagnose the ghm environment and cached data.

Checks that the gh CLI is installed and authenticated, that the config
file parses, and that the cache files are readable and within bounds.`,
		Example: `  ghm doctor        # Report issues
  ghm doctor --fix  # Repair what can be repaired`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := dataDir()
			if err != nil {
				return err
			}
			return doctor.Run(cmd.Context(), cfg, dir, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair issues that have an automatic fix")

	return cmd
}
