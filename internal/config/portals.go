package config

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Portal is one state procurement portal on the Infor platform. Disabled
// entries stay in the config (with their outage noted) without being walked.
type Portal struct {
	Name     string `mapstructure:"name"`
	URL      string `mapstructure:"url"`
	Disabled bool   `mapstructure:"disabled"`
}

// decodePortals converts the raw portals section into Portal values. Entries
// arrive as loosely typed maps from YAML or from the defaults, so decode
// weakly and keep the configured order.
func decodePortals(raw any) ([]Portal, error) {
	if raw == nil {
		return nil, nil
	}

	var portals []Portal
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &portals,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if decodeErr := decoder.Decode(raw); decodeErr != nil {
		return nil, fmt.Errorf("failed to decode portals: %w", decodeErr)
	}

	return portals, nil
}

func (p *Portal) validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.URL == "" {
		return errors.New("url is required")
	}
	if err := validatePortalURL(p.URL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	return nil
}
