package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the scraper package defaults
// so that CLI help text and engine behavior cannot drift apart silently.
const (
	// DefaultMaxPages caps the number of pages collected per crawl.
	// Documentation sites rarely carry more than a few hundred pages of
	// real content; runaway growth usually means calendar or tag pages.
	DefaultMaxPages = 200

	// DefaultTimeout is the deadline for each page fetch. Five seconds is
	// generous for static documentation hosting.
	DefaultTimeout = 5 * time.Second

	// DefaultConcurrency is the number of fetches dispatched per batch.
	DefaultConcurrency = 5

	// AppName is the application name used for XDG directory paths.
	AppName = "mdcrawl"
)

// Config holds all options for one mdcrawl run. It is populated from CLI
// flags and the optional config file, then passed through the application
// by value reference rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is manageable, and nesting would
// add complexity without significant benefit.
type Config struct {
	// StartURL is the URL the crawl is seeded from. It must parse as an
	// absolute HTTP(S) URL; the scraper enforces this before crawling.
	StartURL string

	// MaxPages is the hard cap on collected pages per crawl.
	MaxPages int

	// Timeout is the per-page fetch deadline.
	Timeout time.Duration

	// Concurrency is the number of URLs fetched per batch.
	Concurrency int

	// AuthHeader is an optional Authorization header value. A leading
	// "Authorization:" prefix is accepted and stripped by the fetcher.
	AuthHeader string

	// Cookies is an optional Cookie header string sent with every request.
	Cookies string

	// Verbose enables debug-level log output.
	Verbose bool

	// JSONReport selects JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output. Mutually exclusive
	// with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, writes the report to this path instead of
	// stdout. Parent directories are created as needed.
	ReportFile string

	// ConfigFilePath is an explicit config file path. When empty, the
	// loader searches for .mdcrawl in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the config file.
	SiteConfigs *File

	// DBDir is the directory holding the SQLite page store. Defaults to
	// the XDG data directory.
	DBDir string

	// SaveToDB controls whether crawl results are persisted to the store.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor instead of relying on zero values
// because most defaults are non-zero. This also documents what the
// defaults are.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for mdcrawl.
// On Linux: ~/.local/share/mdcrawl
// On macOS: ~/Library/Application Support/mdcrawl
// On Windows: %LOCALAPPDATA%\mdcrawl
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks whether the configuration is usable and returns a
// sentinel error describing the first problem found. Fixing one error
// often makes others irrelevant, so we do not collect them.
func (c *Config) Validate() error {
	if c.StartURL == "" {
		return ErrNoStartURL
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
