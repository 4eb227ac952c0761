package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Paging defaults follow the listing
// source's own search UI; the rest are conservative choices that keep a
// single search round under a minute.
const (
	// DefaultPageSize is the number of records requested per page.
	// 100 is the largest page the source serves reliably.
	DefaultPageSize = 100

	// DefaultMaxRecords caps how many records one search round ingests.
	// The cap keeps broad searches ("any" species in a large city) from
	// paging for minutes; hitting it yields a partial result, not an error.
	DefaultMaxRecords = 1000

	// DefaultRadiusMiles is the search radius when the user does not
	// specify one.
	DefaultRadiusMiles = 100

	// DefaultPageDelay is the pause between page fetches. A politeness
	// setting so repeated searches do not hammer the source.
	DefaultPageDelay = 2 * time.Second

	// DefaultRequestTimeout bounds a single page fetch.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultSearchTimeout bounds one whole search round, covering every
	// species expansion and page. Zero disables the bound.
	DefaultSearchTimeout = 5 * time.Minute

	// DefaultConcurrency is the number of batch searches run at once.
	DefaultConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "petscan"
)

// Config holds all options for one invocation. It is populated from CLI
// flags plus the optional config file and passed down via dependency
// injection rather than global state.
type Config struct {
	// City and State identify the search location. State is a two-letter
	// USPS code.
	City  string
	State string

	// Species narrows the search; "any" expands to every known species.
	Species string

	// RadiusMiles is the search radius, clamped to 1..500 by validation.
	RadiusMiles int

	// PageSize is the number of records per page request.
	PageSize int

	// MaxRecords caps records ingested per search round.
	MaxRecords int

	// PageDelay is the pause between page fetches.
	PageDelay time.Duration

	// RequestTimeout bounds each page fetch.
	RequestTimeout time.Duration

	// SearchTimeout bounds one whole search round. Zero means unbounded.
	SearchTimeout time.Duration

	// Concurrency is the number of batch searches run at once.
	Concurrency int

	// Batch enables running every saved search from the config file
	// instead of the single flag-specified query.
	Batch bool

	// ConfigFilePath is an explicit config file path. If empty, the tool
	// searches for .petscan in the current directory and then the home
	// directory.
	ConfigFilePath string

	// FileConfig holds the parsed config file, when one was found.
	FileConfig *File

	// DBDir is the directory holding the SQLite database. Defaults to the
	// XDG data directory.
	DBDir string

	// Verbose enables debug-level log output.
	Verbose bool
}

// NewConfig returns a Config with every default applied. Constructor
// instead of zero values because most defaults are non-zero.
func NewConfig() *Config {
	return &Config{
		Species:        "any",
		RadiusMiles:    DefaultRadiusMiles,
		PageSize:       DefaultPageSize,
		MaxRecords:     DefaultMaxRecords,
		PageDelay:      DefaultPageDelay,
		RequestTimeout: DefaultRequestTimeout,
		SearchTimeout:  DefaultSearchTimeout,
		Concurrency:    DefaultConcurrency,
		DBDir:          XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for petscan.
// On Linux: ~/.local/share/petscan
// On macOS: ~/Library/Application Support/petscan
// On Windows: %LOCALAPPDATA%\petscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration, returning the first problem found.
// Query-level validation (city format, state code, species name, radius
// bounds) happens in the model; this covers the operational knobs.
func (c *Config) Validate() error {
	if !c.Batch && (c.City == "" || c.State == "") {
		return ErrNoLocation
	}
	if c.Batch && (c.FileConfig == nil || len(c.FileConfig.Searches) == 0) {
		return ErrNoBatchSearches
	}
	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if c.MaxRecords <= 0 {
		return ErrInvalidMaxRecords
	}
	if c.PageDelay < 0 {
		return ErrInvalidPageDelay
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.SearchTimeout < 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	return nil
}
