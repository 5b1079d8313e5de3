package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no export file is specified.
	ErrNoInput = errors.New("no input specified: provide at least one export file")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no processing at all.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidDescriptionLimit is returned when the description limit is
	// negative. Use 0 to keep the built-in default.
	ErrInvalidDescriptionLimit = errors.New("invalid description limit: must be non-negative")

	// ErrNoFormats is returned when the output format list is empty.
	ErrNoFormats = errors.New("no output format specified")
)
