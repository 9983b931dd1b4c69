// Package pipeline orchestrates a scan: fan out the source adapters, merge,
// deduplicate, score, filter against the seen ledger, and deliver the digest.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/rfpscout/internal/dedup"
	"github.com/jonesrussell/rfpscout/internal/digest"
	"github.com/jonesrussell/rfpscout/internal/ledger"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/models"
	"github.com/jonesrussell/rfpscout/internal/sources"
)

// previewLimit caps the console table; the digest carries the full list.
const previewLimit = 10

// Notifier delivers a rendered digest and returns the provider's delivery ID.
type Notifier interface {
	Configured() bool
	Send(ctx context.Context, d digest.Digest) (string, error)
}

// Scorer assigns the relevance score for one record.
type Scorer interface {
	Score(opp models.Opportunity) int
}

// ExpiringSource fetches the expiring-contracts side channel.
type ExpiringSource interface {
	Fetch(ctx context.Context) []models.Opportunity
}

// Options are the scan knobs.
type Options struct {
	MinScore       int
	Concurrency    int
	AdapterTimeout time.Duration
	LedgerPath     string
	DryRun         bool
}

// Summary reports what one run did.
type Summary struct {
	RunID string
	// Fetched counts raw records across all sources; BySource breaks it down.
	Fetched  int
	BySource map[string]int
	// Unique is the count after URL deduplication.
	Unique int
	// Qualified met the score threshold, seen or not.
	Qualified int
	// New qualified and were not in the ledger; these go in the digest.
	New        int
	Expiring   int
	Delivered  bool
	DeliveryID string
	Duration   time.Duration
}

// Runner executes scans. It owns the ledger lifecycle: the ledger is loaded
// at the start of a run and persisted only after a confirmed delivery, so an
// undelivered digest never permanently swallows opportunities.
type Runner struct {
	// Out receives the console preview table; tests capture it.
	Out io.Writer
	// Now supplies the digest timestamp; tests pin it.
	Now func() time.Time

	adapters []sources.Adapter
	scorer   Scorer
	notifier Notifier
	expiring ExpiringSource
	opts     Options
	log      logger.Logger
}

// NewRunner wires a runner. notifier and expiring may be nil.
func NewRunner(
	adapters []sources.Adapter,
	scorer Scorer,
	notifier Notifier,
	expiring ExpiringSource,
	opts Options,
	log logger.Logger,
) *Runner {
	return &Runner{
		Out:      os.Stdout,
		Now:      time.Now,
		adapters: adapters,
		scorer:   scorer,
		notifier: notifier,
		expiring: expiring,
		opts:     opts,
		log:      log,
	}
}

// Run executes one scan.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString(), BySource: make(map[string]int, len(r.adapters))}
	defer func() { summary.Duration = time.Since(start) }()

	log := r.log.With(logger.String("run_id", summary.RunID))

	led, err := ledger.Load(r.opts.LedgerPath)
	if err != nil {
		log.Warn("Ledger unreadable, starting empty", logger.Error(err))
	}
	log.Info("Scan starting",
		logger.Int("sources", len(r.adapters)),
		logger.Int("seen_urls", led.Len()),
	)

	slots := r.fetchAll(ctx, log)
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	var merged []models.Opportunity
	for i, slot := range slots {
		summary.BySource[r.adapters[i].Name()] = len(slot)
		summary.Fetched += len(slot)
		merged = append(merged, slot...)
	}

	unique := dedup.Deduplicate(merged)
	summary.Unique = len(unique)

	for i := range unique {
		unique[i].Score = r.scorer.Score(unique[i])
	}

	var survivors []models.Opportunity
	for _, opp := range unique {
		if opp.Score < r.opts.MinScore {
			continue
		}
		summary.Qualified++
		if led.Contains(dedup.Normalize(opp.URL)) {
			continue
		}
		survivors = append(survivors, opp)
	}
	// Stable so equal scores keep merge order.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].Score > survivors[j].Score
	})
	summary.New = len(survivors)

	var expiring []models.Opportunity
	if r.expiring != nil {
		for _, rec := range r.expiring.Fetch(ctx) {
			if led.Contains(dedup.Normalize(rec.URL)) {
				continue
			}
			expiring = append(expiring, rec)
		}
	}
	summary.Expiring = len(expiring)

	log.Info("Scan evaluated",
		logger.Int("fetched", summary.Fetched),
		logger.Int("unique", summary.Unique),
		logger.Int("qualified", summary.Qualified),
		logger.Int("new", summary.New),
		logger.Int("expiring", summary.Expiring),
	)

	r.preview(survivors)

	if summary.New == 0 && summary.Expiring == 0 {
		log.Info("Nothing new, skipping digest")
		return summary, nil
	}
	if r.opts.DryRun {
		log.Info("Dry run, skipping delivery and ledger update")
		return summary, nil
	}
	if r.notifier == nil || !r.notifier.Configured() {
		log.Warn("Notifier not configured, skipping delivery; ledger left untouched")
		return summary, nil
	}

	d, err := digest.Build(survivors, expiring, r.Now())
	if err != nil {
		return summary, fmt.Errorf("build digest: %w", err)
	}
	deliveryID, err := r.notifier.Send(ctx, d)
	if err != nil {
		return summary, fmt.Errorf("deliver digest: %w", err)
	}
	summary.Delivered = true
	summary.DeliveryID = deliveryID

	for _, opp := range survivors {
		led.Add(dedup.Normalize(opp.URL))
	}
	for _, rec := range expiring {
		led.Add(dedup.Normalize(rec.URL))
	}
	if err := led.Save(r.opts.LedgerPath); err != nil {
		return summary, fmt.Errorf("persist ledger: %w", err)
	}

	log.Info("Scan complete",
		logger.Int("delivered_records", summary.New+summary.Expiring),
		logger.String("delivery_id", deliveryID),
		logger.Duration("duration", time.Since(start)),
	)
	return summary, nil
}

// fetchAll runs every adapter under the concurrency limit, each with its own
// deadline. Results land in per-adapter slots so merge order follows the
// configured adapter order, not completion order. A failed adapter
// contributes whatever partial results it returned; it never aborts the run.
func (r *Runner) fetchAll(ctx context.Context, log logger.Logger) [][]models.Opportunity {
	slots := make([][]models.Opportunity, len(r.adapters))
	var fetched atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, adapter := range r.adapters {
		g.Go(func() error {
			actx, cancel := context.WithTimeout(gctx, r.opts.AdapterTimeout)
			defer cancel()

			started := time.Now()
			opps, err := adapter.Fetch(actx)
			if err != nil {
				log.Error("Source fetch failed",
					logger.String("source", adapter.Name()),
					logger.Int("partial_records", len(opps)),
					logger.Error(err),
				)
			} else {
				log.Info("Source finished",
					logger.String("source", adapter.Name()),
					logger.Int("records", len(opps)),
					logger.Duration("took", time.Since(started)),
				)
			}
			slots[i] = opps
			fetched.Add(int64(len(opps)))
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("Fan-out finished", logger.Int("records", int(fetched.Load())))
	return slots
}

// preview prints the top survivors so cron logs show what went out.
func (r *Runner) preview(opps []models.Opportunity) {
	if len(opps) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.Out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Score", "Source", "Title", "Agency"})

	shown := min(len(opps), previewLimit)
	for i := 0; i < shown; i++ {
		opp := opps[i]
		t.AppendRow(table.Row{i + 1, opp.Score, opp.Source, clip(opp.Title, 60), clip(opp.Agency, 28)})
	}
	if rest := len(opps) - shown; rest > 0 {
		t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("+ %d more in the digest", rest), ""})
	}
	t.Render()
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
