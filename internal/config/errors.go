package config

import "errors"

// Sentinel errors returned by Config.Validate. Callers match them with
// errors.Is to print a targeted message.
var (
	// ErrNoTarget is returned when no target domain was given.
	ErrNoTarget = errors.New("no target domain specified")

	// ErrMaxPagesTooSmall is returned when max-pages is below the floor.
	ErrMaxPagesTooSmall = errors.New("max-pages must be at least 10")

	// ErrDepthTooSmall is returned when depth is below the floor.
	ErrDepthTooSmall = errors.New("depth must be at least 1")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidMaxBodySize is returned when the body size limit is negative.
	ErrInvalidMaxBodySize = errors.New("max body size must not be negative")

	// ErrUnknownFormat is returned when the report format is not supported.
	ErrUnknownFormat = errors.New("unknown report format")

	// ErrXLSXRequiresOutput is returned when the xlsx format is selected
	// without an output file.
	ErrXLSXRequiresOutput = errors.New("xlsx format requires --output")

	// ErrConfigNotFound is returned when an explicitly given config file
	// does not exist.
	ErrConfigNotFound = errors.New("config file not found")
)
