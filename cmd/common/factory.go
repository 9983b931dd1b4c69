package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/rfpscout/internal/config"
	"github.com/jonesrussell/rfpscout/internal/logger"
)

// NewCommandDeps builds the dependencies every subcommand starts from: the
// validated configuration and a logger configured by it.
func NewCommandDeps() (CommandDeps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return CommandDeps{}, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		return CommandDeps{}, fmt.Errorf("create logger: %w", err)
	}

	deps := CommandDeps{
		Logger: log,
		Config: cfg,
	}
	if err := deps.Validate(); err != nil {
		return CommandDeps{}, fmt.Errorf("validate dependencies: %w", err)
	}
	return deps, nil
}
