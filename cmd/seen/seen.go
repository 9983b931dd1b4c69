// Package seen implements the command-line interface for inspecting and
// resetting the ledger of already-reported opportunities.
package seen

import (
	"github.com/spf13/cobra"
)

// Command creates the seen command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seen",
		Short: "Inspect or reset the reported-URL ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newStatsCommand())
	cmd.AddCommand(newClearCommand())

	return cmd
}
