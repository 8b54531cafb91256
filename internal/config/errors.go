package config

import "errors"

// Configuration validation errors returned by Config.Validate.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate. This allows callers to use
// errors.Is for programmatic handling while still providing human-readable
// messages.
var (
	// ErrNoStartURL is returned when no start URL was provided.
	ErrNoStartURL = errors.New("no start URL specified: provide a URL to crawl")

	// ErrInvalidMaxPages is returned when the page budget is not positive.
	// A budget of zero would collect nothing.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	// A zero or negative timeout would fail every request immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the batch size is not positive.
	// A concurrency of zero would never dispatch a fetch.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
