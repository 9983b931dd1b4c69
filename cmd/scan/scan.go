// Package scan implements the scan command: one full pipeline run over
// every configured source.
package scan

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/rfpscout/cmd/common"
	"github.com/jonesrussell/rfpscout/internal/httpx"
	"github.com/jonesrussell/rfpscout/internal/notify"
	"github.com/jonesrussell/rfpscout/internal/pipeline"
	"github.com/jonesrussell/rfpscout/internal/scoring"
	"github.com/jonesrussell/rfpscout/internal/sources"
)

// Command returns the scan command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan all sources and deliver the digest",
		Long: `Scan fans out to every configured source, deduplicates and scores the
merged results, drops anything already reported, and emails the survivors
as a digest. The seen ledger is updated only after a confirmed delivery.`,
		RunE: run,
	}

	cmd.Flags().Bool("dry-run", false, "fetch, score and preview without delivering or touching the ledger")
	_ = viper.BindPFlag("scan.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to get dependencies: %w", err)
	}
	defer func() { _ = deps.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := buildRunner(deps).Run(ctx); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}

// buildRunner assembles the pipeline from config: one shared HTTP client,
// the scoring engine, the adapter set, the expiring side channel, and the
// notifier.
func buildRunner(deps common.CommandDeps) *pipeline.Runner {
	cfg := deps.Config
	client := httpx.NewClient(cfg.Scan.RequestTimeout)

	adapters := sources.BuildAdapters(cfg, client, deps.Logger)

	// Sources that aggregate pages from anywhere on the web get the strict
	// URL policy; dedicated procurement platforms are trusted.
	var nonPlatform []string
	for _, adapter := range adapters {
		if !adapter.Platform() {
			nonPlatform = append(nonPlatform, adapter.Name())
		}
	}

	engine := scoring.NewEngine(scoring.Policy{
		Required:           cfg.Keywords.Required,
		Boost:              cfg.Keywords.Boost,
		Negative:           cfg.Keywords.Negative,
		BlockedDomains:     cfg.URLPolicy.BlockedDomains,
		ForeignTLDs:        cfg.URLPolicy.ForeignTLDs,
		JunkPaths:          cfg.URLPolicy.JunkPaths,
		NonPlatformSources: nonPlatform,
	})

	var expiring pipeline.ExpiringSource
	if cfg.Scan.IncludeExpiring && len(cfg.Keywords.USASpending) > 0 {
		expiring = sources.NewExpiringFetcher(cfg.Keywords.USASpending, cfg.Scan.QueryPause, client, deps.Logger)
	}

	notifier := notify.NewResend(cfg.Notify.ResendAPIKey, cfg.Notify.Sender, cfg.Notify.Recipient, client, deps.Logger)

	return pipeline.NewRunner(adapters, engine, notifier, expiring, pipeline.Options{
		MinScore:       cfg.Scan.MinScore,
		Concurrency:    cfg.Scan.Concurrency,
		AdapterTimeout: cfg.Scan.AdapterTimeout,
		LedgerPath:     cfg.Scan.LedgerPath,
		DryRun:         cfg.Scan.DryRun,
	}, deps.Logger)
}
