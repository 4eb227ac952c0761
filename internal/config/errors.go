package config

import "errors"

// Configuration validation errors. Package-level sentinels so callers
// can branch with errors.Is while still printing a readable message.
var (
	// ErrNoLocation is returned when neither a city/state pair nor --batch
	// provides something to search.
	ErrNoLocation = errors.New("no location specified: provide --city and --state, or use --batch with saved searches")

	// ErrNoBatchSearches is returned when --batch is set but the config
	// file has no searches section.
	ErrNoBatchSearches = errors.New("batch mode requires saved searches in the config file")

	// ErrInvalidPageSize is returned when the page size is not positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidMaxRecords is returned when the record ceiling is not positive.
	ErrInvalidMaxRecords = errors.New("invalid max records: must be positive")

	// ErrInvalidPageDelay is returned when the page delay is negative.
	// Use 0 for no delay between page fetches.
	ErrInvalidPageDelay = errors.New("invalid page delay: must be non-negative")

	// ErrInvalidTimeout is returned when a timeout is out of range. The
	// request timeout must be positive; the search timeout may be zero to
	// disable the bound but never negative.
	ErrInvalidTimeout = errors.New("invalid timeout")

	// ErrInvalidConcurrency is returned when the batch concurrency is not
	// positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")
)
