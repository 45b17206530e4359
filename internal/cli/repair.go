package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"storefront/internal/config"
)

// NewRepairCommand creates the repair command.
func NewRepairCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "repair",
		Short:         "Reconcile back-references and remove orphaned records",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			repo, err := openRepository(cmd.Context(), rootOpts, cfg, slog.Default())
			if err != nil {
				return err
			}
			stats, err := repo.Repair(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"repaired %d parent sets (%d added, %d removed), deleted %d orphans\n",
				stats.Parents, stats.Added, stats.Removed, stats.Orphans)
			return nil
		},
	}
}
