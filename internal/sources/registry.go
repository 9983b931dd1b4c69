package sources

import (
	"net/http"

	"github.com/jonesrussell/rfpscout/internal/config"
	"github.com/jonesrussell/rfpscout/internal/logger"
)

// BuildAdapters assembles the enabled adapters in a fixed order. The order
// matters: it is the merge order, so when two sources surface the same URL
// the earlier adapter's record wins deduplication. Keyed sources without an
// API key are skipped with a log line rather than an error.
func BuildAdapters(cfg *config.Config, client *http.Client, log logger.Logger) []Adapter {
	var adapters []Adapter

	if cfg.Serper.APIKey != "" {
		adapters = append(adapters, NewSerper(
			cfg.Serper.APIKey,
			cfg.Keywords.SearchQueries,
			cfg.Scan.LookbackDays,
			cfg.Scan.SerperPause,
			client, log,
		))
	} else {
		log.Info("SERPER_API_KEY not set, skipping Google search")
	}

	adapters = append(adapters,
		NewBidNet(cfg.Keywords.BidNet, cfg.Scan.QueryPause, cfg.Scan.RequestTimeout, log),
		NewOpenGov(cfg.Keywords.BidNet, cfg.Scan.QueryPause, client, log),
	)

	if cfg.Sam.APIKey != "" {
		adapters = append(adapters, NewSamGov(
			cfg.Sam.APIKey,
			cfg.Keywords.Sam,
			cfg.Scan.LookbackDays,
			cfg.Scan.QueryPause,
			client, log,
		))
	} else {
		log.Info("SAM_API_KEY not set, skipping SAM.gov")
	}

	adapters = append(adapters, NewTennessee(cfg.Keywords.BidNet, cfg.Scan.RequestTimeout, log))

	for _, portal := range cfg.EnabledPortals() {
		adapters = append(adapters, NewInforPortal(
			portal.Name,
			portal.URL,
			cfg.Keywords.BidNet,
			cfg.Scan.PagePause,
			client, log,
		))
	}

	return adapters
}

// Descriptor is one row of the source inventory, shown by `sources list`.
type Descriptor struct {
	Name     string
	Kind     string
	Platform bool
	// Queries is how many upstream calls one scan issues, before pagination.
	Queries int
	Enabled bool
	// Detail carries the endpoint or the reason a source is disabled.
	Detail string
}

// Describe reports every known source, enabled or not, in merge order.
// It mirrors BuildAdapters so the table always matches a real scan.
func Describe(cfg *config.Config) []Descriptor {
	rows := []Descriptor{
		{
			Name:     serperSourceTag,
			Kind:     KindSearchAPI,
			Queries:  len(cfg.Keywords.SearchQueries),
			Enabled:  cfg.Serper.APIKey != "",
			Detail:   serperDetail(cfg),
			Platform: false,
		},
		{
			Name:     bidnetSourceTag,
			Kind:     KindHTMLTable,
			Queries:  len(cfg.Keywords.BidNet),
			Enabled:  true,
			Detail:   bidnetBaseURL,
			Platform: true,
		},
		{
			Name:     openGovSourceTag,
			Kind:     KindRESTAPI,
			Queries:  len(cfg.Keywords.BidNet),
			Enabled:  true,
			Detail:   openGovBaseURL,
			Platform: true,
		},
		{
			Name:     samSourceTag,
			Kind:     KindRESTAPI,
			Queries:  len(cfg.Keywords.Sam),
			Enabled:  cfg.Sam.APIKey != "",
			Detail:   samDetail(cfg),
			Platform: true,
		},
		{
			Name:     tennesseeSourceTag,
			Kind:     KindHTMLTable,
			Queries:  1,
			Enabled:  true,
			Detail:   tennesseePageURL,
			Platform: true,
		},
	}

	for _, portal := range cfg.Portals {
		detail := portal.URL
		if portal.Disabled {
			detail = "disabled in config"
		}
		rows = append(rows, Descriptor{
			Name:     portal.Name + " Procurement",
			Kind:     KindAjaxGrid,
			Queries:  1,
			Enabled:  !portal.Disabled,
			Detail:   detail,
			Platform: true,
		})
	}

	rows = append(rows, Descriptor{
		Name:     usaSpendingSourceTag,
		Kind:     KindRESTAPI,
		Queries:  len(cfg.Keywords.USASpending),
		Enabled:  cfg.Scan.IncludeExpiring,
		Detail:   expiringDetail(cfg),
		Platform: true,
	})

	return rows
}

func serperDetail(cfg *config.Config) string {
	if cfg.Serper.APIKey == "" {
		return "SERPER_API_KEY not set"
	}
	return serperAPIURL
}

func samDetail(cfg *config.Config) string {
	if cfg.Sam.APIKey == "" {
		return "SAM_API_KEY not set"
	}
	return samAPIURL
}

func expiringDetail(cfg *config.Config) string {
	if !cfg.Scan.IncludeExpiring {
		return "scan.include_expiring is false"
	}
	return usaSpendingAPIURL
}
