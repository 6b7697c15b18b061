package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the tool's original
// defaults where applicable.
const (
	// DefaultTimeout is the per-fetch network timeout. It bounds a
	// single request, not the crawl as a whole, which has no time
	// budget by design.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxPages is the maximum number of pages visited per
	// domain. This prevents runaway crawling on large or
	// infinitely-generating sites.
	DefaultMaxPages = 50

	// MinMaxPages is the floor for the --max-pages flag. Auditing
	// fewer than 10 pages rarely says anything useful about a site.
	MinMaxPages = 10

	// DefaultDepth is the default crawl depth setting. The depth
	// option is accepted for compatibility but the traversal does not
	// enforce it; see the --depth flag documentation.
	DefaultDepth = 3

	// MinDepth is the floor for the --depth flag.
	MinDepth = 1

	// DefaultBatchSize is the number of domains audited concurrently
	// when several targets are given. Each individual crawl is still
	// strictly sequential.
	DefaultBatchSize = 3

	// DefaultUserAgent identifies seoscan in HTTP requests so site
	// operators can recognize scanner traffic in their logs.
	DefaultUserAgent = "seoscan/2.0 (+https://github.com/nao1215/seoscan)"

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB covers any reasonable HTML page while preventing memory
	// exhaustion from unexpected responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "seoscan"
)

// Format selects the report output format.
type Format string

// Supported report formats.
const (
	// FormatText is the human-readable per-page listing (default).
	FormatText Format = "text"

	// FormatTable renders the audit summary as a console table.
	FormatTable Format = "table"

	// FormatCSV emits one row per issue for spreadsheet import.
	FormatCSV Format = "csv"

	// FormatJSON emits the full report as JSON.
	FormatJSON Format = "json"

	// FormatMarkdown emits a GitHub-flavored Markdown report.
	FormatMarkdown Format = "markdown"

	// FormatXLSX writes an Excel workbook. Only valid with --output.
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported report format.
func Formats() []Format {
	return []Format{FormatText, FormatTable, FormatCSV, FormatJSON, FormatMarkdown, FormatXLSX}
}

// Config holds all options for an audit run. It is built from CLI flags
// once, validated, and passed down by injection rather than read from
// globals.
type Config struct {
	// Targets is the list of domains to audit. Entries without a
	// scheme are coerced to http://.
	Targets []string

	// MaxPages is the maximum number of pages visited per domain.
	MaxPages int

	// Depth is the accepted-but-unenforced crawl depth setting. The
	// frontier carries no per-URL depth, so this value never limits
	// the traversal.
	Depth int

	// Timeout is the per-fetch network timeout.
	Timeout time.Duration

	// BatchSize is the number of domains audited concurrently.
	BatchSize int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// Format selects the report output format.
	Format Format

	// OutputFile, when set, writes the report to this path instead of
	// stdout. Parent directories are created as needed.
	OutputFile string

	// Verbose enables debug-level log output. It affects only the log
	// level, never crawl behavior.
	Verbose bool

	// ConfigFilePath is an explicit path to the .seoscan site config
	// file. Empty means search the usual locations.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// SaveToDB indicates whether finished audits are stored in the
	// history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	DBDir string
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor rather than relying on zero
// values because most defaults are non-zero, and the constructor doubles
// as documentation of what they are.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		Depth:       DefaultDepth,
		Timeout:     DefaultTimeout,
		BatchSize:   DefaultBatchSize,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Format:      FormatText,
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for seoscan.
// On Linux: ~/.local/share/seoscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration and returns a sentinel error
// describing the first problem found. It is called once after CLI
// parsing, before any crawling begins.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.MaxPages < MinMaxPages {
		return ErrMaxPagesTooSmall
	}
	if c.Depth < MinDepth {
		return ErrDepthTooSmall
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	valid := false
	for _, f := range Formats() {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownFormat
	}

	// The xlsx format produces a binary workbook; writing it to a
	// terminal is never what the user wants.
	if c.Format == FormatXLSX && c.OutputFile == "" {
		return ErrXLSXRequiresOutput
	}

	return nil
}
