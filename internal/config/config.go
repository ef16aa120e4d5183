package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/csprecommend/internal/fetch"
	"github.com/nao1215/csprecommend/internal/uri"
)

const (
	// AppName is used for XDG directory paths.
	AppName = "csprecommend"

	// DefaultTimeout bounds a single HTTP request or render.
	DefaultTimeout = 30 * time.Second

	// DefaultBatchSize is the number of targets analysed concurrently.
	DefaultBatchSize = 4

	// DefaultTorStartupTimeout bounds the bootstrap of the embedded Tor daemon.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultURIMode is the grammar used to read references.
	DefaultURIMode = uri.ModeStrict
)

// Config holds the options of one run. It is filled from flags and passed
// down explicitly.
type Config struct {
	// Targets are URLs, file paths or "-" for stdin.
	Targets []string

	// Timeout bounds each HTTP request, and each render with Render.
	Timeout time.Duration

	// BatchSize is the number of concurrent analyses.
	BatchSize int

	// URIMode selects the reference grammar, strict or loose.
	URIMode uri.Mode

	// SelfHost is resolved to 'self' besides the document's own host.
	// Site files may override it per host.
	SelfHost string

	// StdinLocation is the URL assumed for a document read from stdin.
	StdinLocation string

	// ProxyAddress is an external SOCKS5 proxy in host:port form.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes all traffic through it.
	UseTor bool

	// TorStartupTimeout bounds the Tor bootstrap.
	TorStartupTimeout time.Duration

	// Render loads http(s) targets in headless Chrome.
	Render bool

	// ChromePath is the browser binary for Render. Empty lets chromedp search.
	ChromePath string

	// NoStyleSheets skips @font-face discovery in stylesheets.
	NoStyleSheets bool

	// UserAgent is sent with every request. Site files may override it.
	UserAgent string

	// MaxBodySize limits how much of a document or stylesheet is read.
	// Zero means fetch.DefaultMaxBodySize.
	MaxBodySize int64

	JSONReport     bool
	MarkdownReport bool

	// ReportFile receives the report instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit .csprecommend path.
	ConfigFilePath string

	// SiteConfigs is the loaded config file, nil when there is none.
	SiteConfigs *File

	Verbose bool
}

// NewConfig returns a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		BatchSize:         DefaultBatchSize,
		URIMode:           DefaultURIMode,
		TorStartupTimeout: DefaultTorStartupTimeout,
		UserAgent:         fetch.DefaultUserAgent,
		MaxBodySize:       fetch.DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the per-user config directory of csprecommend.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	stdin := 0
	for _, t := range c.Targets {
		if strings.TrimSpace(t) == fetch.StdinTarget {
			stdin++
		}
	}
	if stdin > 1 {
		return ErrDuplicateStdin
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if !uri.ValidMode(c.URIMode) {
		return ErrInvalidURIMode
	}
	if c.SelfHost != "" && !ValidHost(c.SelfHost) {
		return ErrInvalidSelfHost
	}
	if c.ProxyAddress != "" && c.UseTor {
		return ErrConflictingProxy
	}
	return nil
}

// ValidHost reports whether host is a bare host name, optionally with a
// port, without scheme or path.
func ValidHost(host string) bool {
	if host == "" || strings.ContainsAny(host, "/?#@ \t") {
		return false
	}
	return !strings.Contains(host, "://")
}
