package cmd

import (
	"github.com/spf13/cobra"
)

// NewMappingsCmd creates the mappings command group.
func NewMappingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "Resource mapping operations",
		Long: `Inspect and validate the resource mapping table.

The table drives how Chef custom resources become Ansible tasks. An
overlay file extends or replaces the built-in entries.`,
	}

	// Add subcommands
	cmd.AddCommand(NewMappingsListCmd())
	cmd.AddCommand(NewMappingsVetCmd())

	return cmd
}
