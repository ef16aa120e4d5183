package config

import "errors"

// Validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no target is given.
	ErrNoTarget = errors.New("no target specified: provide a URL, a file path or - for stdin")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown are set.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidURIMode is returned for a URI mode other than strict or loose.
	ErrInvalidURIMode = errors.New("invalid uri mode: must be strict or loose")

	// ErrInvalidSelfHost is returned when the self host is not a bare host name.
	ErrInvalidSelfHost = errors.New("invalid self host: expected a host name such as www.example.com")

	// ErrConflictingProxy is returned when both --proxy and --tor are set.
	ErrConflictingProxy = errors.New("conflicting proxy settings: --proxy and --tor cannot be used together")

	// ErrDuplicateStdin is returned when "-" is given more than once.
	ErrDuplicateStdin = errors.New("stdin (-) can only be analysed once per run")
)
