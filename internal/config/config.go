// Package config defines the typed configuration for rfpscout and the
// policy-table defaults that make a bare environment scannable.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/rfpscout/internal/logger"
)

// Config is the root configuration, bound from viper (file, env, defaults).
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logger    logger.Config   `mapstructure:"logger"`
	Scan      ScanConfig      `mapstructure:"scan"`
	Keywords  KeywordConfig   `mapstructure:"keywords"`
	URLPolicy URLPolicyConfig `mapstructure:"url_policy"`
	Portals   []Portal        `mapstructure:"-"`
	Serper    SerperConfig    `mapstructure:"serper"`
	Sam       SamConfig       `mapstructure:"sam"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

// AppConfig identifies the application instance.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// ScanConfig controls a single pipeline run.
type ScanConfig struct {
	MinScore        int           `mapstructure:"min_score"`
	LookbackDays    int           `mapstructure:"lookback_days"`
	LedgerPath      string        `mapstructure:"ledger_path"`
	Concurrency     int           `mapstructure:"concurrency"`
	AdapterTimeout  time.Duration `mapstructure:"adapter_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	SerperPause     time.Duration `mapstructure:"serper_pause"`
	QueryPause      time.Duration `mapstructure:"query_pause"`
	PagePause       time.Duration `mapstructure:"page_pause"`
	IncludeExpiring bool          `mapstructure:"include_expiring"`
	DryRun          bool          `mapstructure:"dry_run"`
}

// KeywordConfig holds the tunable phrase tables.
type KeywordConfig struct {
	Required      []string `mapstructure:"required"`
	Boost         []string `mapstructure:"boost"`
	Negative      []string `mapstructure:"negative"`
	SearchQueries []string `mapstructure:"search_queries"`
	BidNet        []string `mapstructure:"bidnet"`
	Sam           []string `mapstructure:"sam"`
	USASpending   []string `mapstructure:"usaspending"`
}

// URLPolicyConfig holds the URL rejection tables.
type URLPolicyConfig struct {
	BlockedDomains []string `mapstructure:"blocked_domains"`
	ForeignTLDs    []string `mapstructure:"foreign_tlds"`
	JunkPaths      []string `mapstructure:"junk_paths"`
}

// SerperConfig holds the Google Search API credential.
type SerperConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// SamConfig holds the SAM.gov API credential.
type SamConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// NotifyConfig holds email delivery settings. Delivery is skipped when the
// key or recipient is empty.
type NotifyConfig struct {
	ResendAPIKey string `mapstructure:"resend_api_key"`
	Recipient    string `mapstructure:"recipient"`
	Sender       string `mapstructure:"sender"`
}

// Load builds and validates the configuration from the given viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	portals, err := decodePortals(v.Get("portals"))
	if err != nil {
		return nil, fmt.Errorf("decode portals: %w", err)
	}
	cfg.Portals = portals

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults seeds every configuration key so a bare environment still
// produces a working scan.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "rfpscout",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":        "info",
		"development":  false,
		"output_paths": []string{"stdout"},
	})

	v.SetDefault("scan", map[string]any{
		"min_score":        DefaultMinScore,
		"lookback_days":    DefaultLookbackDays,
		"ledger_path":      DefaultLedgerPath,
		"concurrency":      DefaultConcurrency,
		"adapter_timeout":  "3m",
		"request_timeout":  "30s",
		"serper_pause":     "300ms",
		"query_pause":      "500ms",
		"page_pause":       "500ms",
		"include_expiring": true,
		"dry_run":          false,
	})

	v.SetDefault("keywords", map[string]any{
		"required":       DefaultRequiredKeywords,
		"boost":          DefaultBoostKeywords,
		"negative":       DefaultNegativeKeywords,
		"search_queries": DefaultSearchQueries,
		"bidnet":         DefaultBidNetKeywords,
		"sam":            DefaultSamKeywords,
		"usaspending":    DefaultUSASpendingKeywords,
	})

	v.SetDefault("url_policy", map[string]any{
		"blocked_domains": DefaultBlockedDomains,
		"foreign_tlds":    DefaultForeignTLDs,
		"junk_paths":      DefaultJunkURLPaths,
	})

	v.SetDefault("portals", DefaultPortals)

	v.SetDefault("notify.sender", DefaultSender)
}

// Validate checks ranges and shapes. It runs after defaults, so empty
// required fields mean explicit misconfiguration, not a missing file.
func (c *Config) Validate() error {
	if c.Scan.MinScore < 0 || c.Scan.MinScore > 100 {
		return errors.New("scan.min_score must be between 0 and 100")
	}
	if c.Scan.LookbackDays <= 0 {
		return errors.New("scan.lookback_days must be positive")
	}
	if c.Scan.Concurrency <= 0 {
		return errors.New("scan.concurrency must be positive")
	}
	if c.Scan.AdapterTimeout <= 0 {
		return errors.New("scan.adapter_timeout must be positive")
	}
	if c.Scan.RequestTimeout <= 0 {
		return errors.New("scan.request_timeout must be positive")
	}
	if c.Scan.LedgerPath == "" {
		return errors.New("scan.ledger_path is required")
	}
	if len(c.Keywords.Required) == 0 {
		return errors.New("keywords.required must not be empty")
	}
	if c.Notify.Recipient != "" && !strings.Contains(c.Notify.Recipient, "@") {
		return errors.New("notify.recipient must be an email address")
	}
	if c.Notify.Sender != "" && !strings.Contains(c.Notify.Sender, "@") {
		return errors.New("notify.sender must be an email address")
	}
	for i := range c.Portals {
		if err := c.Portals[i].validate(); err != nil {
			return fmt.Errorf("portals[%d]: %w", i, err)
		}
	}
	return nil
}

// EnabledPortals returns the portals that have not been switched off,
// in configured order.
func (c *Config) EnabledPortals() []Portal {
	enabled := make([]Portal, 0, len(c.Portals))
	for _, p := range c.Portals {
		if !p.Disabled {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

func validatePortalURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be a valid HTTP(S) URL")
	}
	return nil
}
