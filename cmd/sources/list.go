// This file contains the implementation of the list command that displays
// every known source in a formatted table, including the ones the current
// configuration leaves disabled and why.
package sources

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/rfpscout/cmd/common"
	"github.com/jonesrussell/rfpscout/internal/config"
	"github.com/jonesrussell/rfpscout/internal/logger"
	internalsources "github.com/jonesrussell/rfpscout/internal/sources"
)

// TableRenderer handles the display of source data in a table format
type TableRenderer struct {
	logger logger.Logger
}

// NewTableRenderer creates a new TableRenderer instance
func NewTableRenderer(log logger.Logger) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderTable formats and displays the sources in a table format
func (r *TableRenderer) RenderTable(rows []internalsources.Descriptor) error {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Name", "Kind", "Platform", "Queries", "Enabled", "Detail"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Name,
			row.Kind,
			row.Platform,
			row.Queries,
			row.Enabled,
			row.Detail,
		})
	}

	t.Render()
	return nil
}

// Lister handles listing sources
type Lister struct {
	config   *config.Config
	logger   logger.Logger
	renderer *TableRenderer
}

// NewLister creates a new Lister instance
func NewLister(cfg *config.Config, log logger.Logger, renderer *TableRenderer) *Lister {
	return &Lister{
		config:   cfg,
		logger:   log,
		renderer: renderer,
	}
}

// Start begins the list operation
func (l *Lister) Start() error {
	l.logger.Info("Listing sources")

	return l.renderer.RenderTable(internalsources.Describe(l.config))
}

// NewListCommand creates a new list command
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configured sources",
		Long:  `List every known opportunity source with its kind, scope, and whether the current configuration enables it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			renderer := NewTableRenderer(deps.Logger)
			lister := NewLister(deps.Config, deps.Logger, renderer)

			return lister.Start()
		},
	}
}
