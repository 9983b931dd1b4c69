// This file contains the implementation of the clear command that resets the
// ledger so every opportunity counts as new on the next scan.
package seen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/rfpscout/cmd/common"
	"github.com/jonesrussell/rfpscout/internal/ledger"
	"github.com/jonesrussell/rfpscout/internal/logger"
)

// ErrClearCancelled is returned when the user cancels the clear
var ErrClearCancelled = errors.New("clear cancelled by user")

// Clearer implements the seen clear command
type Clearer struct {
	logger logger.Logger
	path   string
	force  bool
}

// NewClearer creates a new clearer instance
func NewClearer(log logger.Logger, path string, force bool) *Clearer {
	return &Clearer{
		logger: log,
		path:   path,
		force:  force,
	}
}

// Start executes the clear operation
func (c *Clearer) Start() error {
	led, err := ledger.Load(c.path)
	if err != nil {
		// A malformed ledger is still cleared; the count is just unknown.
		c.logger.Warn("Ledger could not be parsed", logger.Error(err))
	}

	if _, statErr := os.Stat(c.path); os.IsNotExist(statErr) {
		fmt.Println("Ledger is already empty")
		return nil
	}

	if err := c.confirmClear(led.Len()); err != nil {
		return err
	}

	if err := os.Remove(c.path); err != nil {
		return fmt.Errorf("failed to remove ledger %s: %w", c.path, err)
	}

	c.logger.Info("Ledger cleared",
		logger.String("path", c.path),
		logger.Int("removed", led.Len()),
	)
	fmt.Printf("Cleared %d seen URLs from %s\n", led.Len(), c.path)
	return nil
}

// confirmClear asks for user confirmation before the ledger is removed
func (c *Clearer) confirmClear(count int) error {
	fmt.Printf("This will clear %d seen URLs from %s.\n", count, c.path)
	fmt.Println("Every previously reported opportunity may show up in the next digest again.")

	// If force flag is set or stdin is not a terminal, skip confirmation
	if c.force || !isatty.IsTerminal(os.Stdin.Fd()) {
		return nil
	}

	fmt.Print("Are you sure you want to continue? (y/N): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		// An EOF or empty input is treated as 'N'
		if errors.Is(err, io.EOF) || response == "" {
			return ErrClearCancelled
		}
		return fmt.Errorf("failed to read user input: %w", err)
	}

	if !strings.EqualFold(response, "y") {
		return ErrClearCancelled
	}

	return nil
}

// newClearCommand creates the clear command.
func newClearCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset the ledger so every opportunity is new again",
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			return NewClearer(deps.Logger, deps.Config.Scan.LedgerPath, force).Start()
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")

	return cmd
}
