// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated
// to handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the vcdmigrate CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcdmigrate",
		Short: "Finish NSX-V to NSX-T migrations in VMware Cloud Director",
	}

	cmd.AddCommand(Cleanup())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
