package common

import "errors"

// Dependency errors shared by all commands.
var (
	// ErrLoggerRequired is returned when a command is built without a logger.
	ErrLoggerRequired = errors.New("logger is required")

	// ErrConfigRequired is returned when a command is built without a config.
	ErrConfigRequired = errors.New("config is required")
)
