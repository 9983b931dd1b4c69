package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/rfpscout/internal/digest"
	"github.com/jonesrussell/rfpscout/internal/ledger"
	"github.com/jonesrussell/rfpscout/internal/logger"
	"github.com/jonesrussell/rfpscout/internal/models"
	"github.com/jonesrussell/rfpscout/internal/pipeline"
	"github.com/jonesrussell/rfpscout/internal/sources"
)

type fakeAdapter struct {
	name string
	opps []models.Opportunity
	err  error
}

func (f *fakeAdapter) Name() string   { return f.name }
func (f *fakeAdapter) Kind() string   { return "rest-api" }
func (f *fakeAdapter) Platform() bool { return true }
func (f *fakeAdapter) Fetch(context.Context) ([]models.Opportunity, error) {
	return f.opps, f.err
}

// fixedScorer scores by URL lookup; unknown URLs score 0.
type fixedScorer map[string]int

func (s fixedScorer) Score(opp models.Opportunity) int { return s[opp.URL] }

type fakeNotifier struct {
	configured bool
	err        error
	sent       []digest.Digest
}

func (f *fakeNotifier) Configured() bool { return f.configured }
func (f *fakeNotifier) Send(_ context.Context, d digest.Digest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.sent = append(f.sent, d)
	return "delivery-1", nil
}

type fakeExpiring struct {
	recs []models.Opportunity
}

func (f *fakeExpiring) Fetch(context.Context) []models.Opportunity { return f.recs }

func testOpp(title, url string) models.Opportunity {
	return models.Opportunity{
		Title:  title,
		URL:    url,
		Source: "SAM.gov",
		Agency: "General Services Administration",
	}
}

func testOptions(ledgerPath string) pipeline.Options {
	return pipeline.Options{
		MinScore:       45,
		Concurrency:    4,
		AdapterTimeout: time.Minute,
		LedgerPath:     ledgerPath,
	}
}

func newTestRunner(
	adapters []sources.Adapter,
	scorer pipeline.Scorer,
	notifier pipeline.Notifier,
	expiring pipeline.ExpiringSource,
	opts pipeline.Options,
) *pipeline.Runner {
	r := pipeline.NewRunner(adapters, scorer, notifier, expiring, opts, logger.NewNop())
	r.Out = io.Discard
	r.Now = func() time.Time {
		return time.Date(2026, time.August, 22, 7, 30, 0, 0, time.UTC)
	}
	return r
}

// mergeFixture returns two adapters sharing one URL (modulo tracking params)
// plus a below-threshold record, and a scorer for them.
func mergeFixture() ([]sources.Adapter, fixedScorer) {
	alpha := &fakeAdapter{name: "alpha", opps: []models.Opportunity{
		testOpp("Case Management RFP", "https://example.gov/opp/1"),
		testOpp("Winner Title", "https://shared.gov/opp?utm=1"),
	}}
	beta := &fakeAdapter{name: "beta", opps: []models.Opportunity{
		testOpp("Loser Title", "https://shared.gov/opp#detail"),
		testOpp("Janitorial Services", "https://example.gov/opp/low"),
	}}
	scorer := fixedScorer{
		"https://example.gov/opp/1":    80,
		"https://shared.gov/opp?utm=1": 90,
		"https://example.gov/opp/low":  10,
	}
	return []sources.Adapter{alpha, beta}, scorer
}

func TestRunner_DeliversAndPersistsLedger(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	adapters, scorer := mergeFixture()
	notifier := &fakeNotifier{configured: true}

	runner := newTestRunner(adapters, scorer, notifier, nil, testOptions(ledgerPath))
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 4, summary.Fetched)
	assert.Equal(t, map[string]int{"alpha": 2, "beta": 2}, summary.BySource)
	assert.Equal(t, 3, summary.Unique)
	assert.Equal(t, 2, summary.Qualified)
	assert.Equal(t, 2, summary.New)
	assert.True(t, summary.Delivered)
	assert.Equal(t, "delivery-1", summary.DeliveryID)

	require.Len(t, notifier.sent, 1)
	d := notifier.sent[0]
	assert.Contains(t, d.Subject, "2 new opportunities")

	// The first adapter in configured order wins the shared URL.
	assert.Contains(t, d.HTML, "Winner Title")
	assert.NotContains(t, d.HTML, "Loser Title")

	// Digest rows are sorted by score descending.
	assert.Less(t,
		strings.Index(d.HTML, "Winner Title"),
		strings.Index(d.HTML, "Case Management RFP"),
	)

	led, err := ledger.Load(ledgerPath)
	require.NoError(t, err)
	assert.Equal(t, 2, led.Len())
	assert.True(t, led.Contains("https://shared.gov/opp"))
	assert.True(t, led.Contains("https://example.gov/opp/1"))
}

func TestRunner_SecondRunIsNoOp(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	adapters, scorer := mergeFixture()

	first := newTestRunner(adapters, scorer, &fakeNotifier{configured: true}, nil, testOptions(ledgerPath))
	_, err := first.Run(context.Background())
	require.NoError(t, err)

	notifier := &fakeNotifier{configured: true}
	second := newTestRunner(adapters, scorer, notifier, nil, testOptions(ledgerPath))
	summary, err := second.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Qualified)
	assert.Zero(t, summary.New)
	assert.False(t, summary.Delivered)
	assert.Empty(t, notifier.sent)
}

func TestRunner_DeliveryFailureLeavesLedgerUntouched(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	adapters, scorer := mergeFixture()
	notifier := &fakeNotifier{configured: true, err: errors.New("boom")}

	runner := newTestRunner(adapters, scorer, notifier, nil, testOptions(ledgerPath))
	summary, err := runner.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deliver digest")
	assert.False(t, summary.Delivered)

	_, statErr := os.Stat(ledgerPath)
	assert.True(t, os.IsNotExist(statErr), "ledger must not be written after a failed delivery")
}

func TestRunner_UnconfiguredNotifierSkipsDelivery(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	adapters, scorer := mergeFixture()
	notifier := &fakeNotifier{configured: false}

	runner := newTestRunner(adapters, scorer, notifier, nil, testOptions(ledgerPath))
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.New)
	assert.False(t, summary.Delivered)
	assert.Empty(t, notifier.sent)

	_, statErr := os.Stat(ledgerPath)
	assert.True(t, os.IsNotExist(statErr), "skipped delivery must not mark records as seen")
}

func TestRunner_DryRunStopsBeforeDelivery(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	adapters, scorer := mergeFixture()
	notifier := &fakeNotifier{configured: true}

	opts := testOptions(ledgerPath)
	opts.DryRun = true

	runner := newTestRunner(adapters, scorer, notifier, nil, opts)
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.New)
	assert.False(t, summary.Delivered)
	assert.Empty(t, notifier.sent)

	_, statErr := os.Stat(ledgerPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_AdapterFailureIsIsolated(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	broken := &fakeAdapter{
		name: "broken",
		opps: []models.Opportunity{testOpp("Partial Record", "https://example.gov/opp/partial")},
		err:  errors.New("upstream 500"),
	}
	healthy := &fakeAdapter{
		name: "healthy",
		opps: []models.Opportunity{testOpp("Healthy Record", "https://example.gov/opp/ok")},
	}
	scorer := fixedScorer{
		"https://example.gov/opp/partial": 70,
		"https://example.gov/opp/ok":      70,
	}
	notifier := &fakeNotifier{configured: true}

	runner := newTestRunner([]sources.Adapter{broken, healthy}, scorer, notifier, nil, testOptions(ledgerPath))
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	// Partial results from the failed adapter still count.
	assert.Equal(t, map[string]int{"broken": 1, "healthy": 1}, summary.BySource)
	assert.Equal(t, 2, summary.New)
	assert.True(t, summary.Delivered)
}

func TestRunner_ExpiringOnlyStillDelivers(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	expiring := &fakeExpiring{recs: []models.Opportunity{{
		Title:      "ACME FEDERAL SERVICES (47QTCA20D00XX)",
		URL:        "https://www.usaspending.gov/award/CONT_AWD_100",
		Source:     "USASpending",
		PostedDate: "2026-11-30",
	}}}
	notifier := &fakeNotifier{configured: true}

	runner := newTestRunner(nil, fixedScorer{}, notifier, expiring, testOptions(ledgerPath))
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.New)
	assert.Equal(t, 1, summary.Expiring)
	assert.True(t, summary.Delivered)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0].Subject, "0 new opportunities + 1 expiring contracts")

	led, err := ledger.Load(ledgerPath)
	require.NoError(t, err)
	assert.True(t, led.Contains("https://www.usaspending.gov/award/cont_awd_100"))
}

func TestRunner_ExpiringRespectsLedger(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")

	seeded := ledger.New()
	seeded.Add("https://www.usaspending.gov/award/cont_awd_100")
	require.NoError(t, seeded.Save(ledgerPath))

	expiring := &fakeExpiring{recs: []models.Opportunity{{
		Title: "ACME FEDERAL SERVICES (47QTCA20D00XX)",
		URL:   "https://www.usaspending.gov/award/CONT_AWD_100",
	}}}
	notifier := &fakeNotifier{configured: true}

	runner := newTestRunner(nil, fixedScorer{}, notifier, expiring, testOptions(ledgerPath))
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.Expiring)
	assert.False(t, summary.Delivered)
	assert.Empty(t, notifier.sent)
}

func TestRunner_NothingNewIsCleanNoop(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	notifier := &fakeNotifier{configured: true}

	runner := newTestRunner(nil, fixedScorer{}, notifier, nil, testOptions(ledgerPath))
	summary, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.New)
	assert.Empty(t, notifier.sent)

	_, statErr := os.Stat(ledgerPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunner_PreviewListsTopSurvivors(t *testing.T) {
	ledgerPath := filepath.Join(t.TempDir(), "seen_urls.json")
	adapters, scorer := mergeFixture()

	opts := testOptions(ledgerPath)
	opts.DryRun = true

	runner := newTestRunner(adapters, scorer, &fakeNotifier{configured: true}, nil, opts)
	var out bytes.Buffer
	runner.Out = &out

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Winner Title")
	assert.Contains(t, out.String(), "Case Management RFP")
	assert.NotContains(t, out.String(), "Janitorial Services")
}
