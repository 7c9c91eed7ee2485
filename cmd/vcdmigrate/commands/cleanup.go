package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/vcdmigrate/cmd/vcdmigrate/handlers"
)

// Cleanup returns the cleanup command.
//
// The cleanup command runs the post-migration workflow: it validates the
// source and target org VDCs, moves catalog items to the target, removes
// the NSX-V side, and renames the target VDC and its networks to their
// final names.
func Cleanup() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove the NSX-V org VDC after a completed migration",
		Long: `Cleanup finishes an NSX-V to NSX-T migration.

After the workload migration has moved every vApp to the target org VDC,
this command removes what is left of the NSX-V side and promotes the
target to its final identity:

  - Validates that the source org VDC is still NSX-V backed and the
    target org VDC is NSX-T backed and enabled
  - Moves vApp templates and media items to the target org VDC
  - Removes NSX-T bridging from the migrated networks
  - Deletes the source org VDC networks, edge gateways, and the VDC
  - Renames the target org VDC and its networks to the original names
  - Returns the source edge gateway IP allocations to the external
    network pool

Every validation runs before the first destructive step. A failed step
stops the run immediately.

Example:
  vcdmigrate cleanup -c cleanup.yaml

WARNING: Deleting the source org VDC is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cleanup(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to migration configuration file (required)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
