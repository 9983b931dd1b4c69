package seen

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/rfpscout/cmd/common"
	"github.com/jonesrussell/rfpscout/internal/ledger"
	"github.com/jonesrussell/rfpscout/internal/logger"
)

// newStatsCommand creates the stats command.
func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many opportunities have been reported",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			path := deps.Config.Scan.LedgerPath
			led, err := ledger.Load(path)
			if err != nil {
				deps.Logger.Warn("Ledger could not be parsed", logger.Error(err))
			}

			fmt.Printf("Ledger:    %s\n", path)
			fmt.Printf("Seen URLs: %d\n", led.Len())
			return nil
		},
	}
}
