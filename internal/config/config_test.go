package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/csprecommend/internal/fetch"
	"github.com/nao1215/csprecommend/internal/uri"
)

// TestNewConfig documents the defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.BatchSize != 4 {
		t.Errorf("BatchSize = %d, want 4", cfg.BatchSize)
	}
	if cfg.URIMode != uri.ModeStrict {
		t.Errorf("URIMode = %q, want strict", cfg.URIMode)
	}
	if cfg.TorStartupTimeout != 3*time.Minute {
		t.Errorf("TorStartupTimeout = %v, want 3m", cfg.TorStartupTimeout)
	}
	if cfg.UserAgent != fetch.DefaultUserAgent {
		t.Errorf("UserAgent = %q", cfg.UserAgent)
	}
	if cfg.MaxBodySize != fetch.DefaultMaxBodySize {
		t.Errorf("MaxBodySize = %d", cfg.MaxBodySize)
	}
	if cfg.UseTor || cfg.Render || cfg.NoStyleSheets {
		t.Error("optional features should be off by default")
	}
}

// TestConfigValidate tests every validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr error
	}{
		{name: "valid configuration", modify: func(_ *Config) {}, wantErr: nil},
		{name: "no targets", modify: func(c *Config) { c.Targets = nil }, wantErr: ErrNoTarget},
		{
			name:    "stdin twice",
			modify:  func(c *Config) { c.Targets = []string{"-", " - "} },
			wantErr: ErrDuplicateStdin,
		},
		{name: "zero timeout", modify: func(c *Config) { c.Timeout = 0 }, wantErr: ErrInvalidTimeout},
		{name: "zero batch size", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: ErrInvalidBatchSize},
		{
			name:    "json and markdown",
			modify:  func(c *Config) { c.JSONReport, c.MarkdownReport = true, true },
			wantErr: ErrConflictingReportFormats,
		},
		{name: "negative body size", modify: func(c *Config) { c.MaxBodySize = -1 }, wantErr: ErrInvalidMaxBodySize},
		{name: "unknown uri mode", modify: func(c *Config) { c.URIMode = "fuzzy" }, wantErr: ErrInvalidURIMode},
		{
			name:    "self host with scheme",
			modify:  func(c *Config) { c.SelfHost = "https://www.example.com" },
			wantErr: ErrInvalidSelfHost,
		},
		{name: "self host with port", modify: func(c *Config) { c.SelfHost = "www.example.com:8443" }, wantErr: nil},
		{
			name:    "proxy and tor",
			modify:  func(c *Config) { c.ProxyAddress, c.UseTor = "127.0.0.1:9050", true },
			wantErr: ErrConflictingProxy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.Targets = []string{"https://www.example.com/"}
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileGetSiteConfig tests merging of defaults and site settings.
func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	cf := &File{
		Defaults: SiteConfig{
			Cookie:    "consent=1",
			UserAgent: "default-agent",
			Headers:   map[string]string{"Accept-Language": "en", "X-Team": "web"},
		},
		Sites: map[string]SiteConfig{
			"intranet.example.com": {
				Cookie:   "session=xyz",
				SelfHost: "static.example.com",
				Headers:  map[string]string{"X-Team": "ops"},
			},
		},
	}

	t.Run("unknown host gets defaults", func(t *testing.T) {
		t.Parallel()

		got := cf.GetSiteConfig("other.example.com")
		if got.Cookie != "consent=1" || got.UserAgent != "default-agent" {
			t.Errorf("unexpected site config: %+v", got)
		}
	})

	t.Run("site fields override defaults", func(t *testing.T) {
		t.Parallel()

		got := cf.GetSiteConfig("Intranet.Example.com")
		if got.Cookie != "session=xyz" {
			t.Errorf("Cookie = %q", got.Cookie)
		}
		if got.UserAgent != "default-agent" {
			t.Errorf("UserAgent = %q", got.UserAgent)
		}
		if got.SelfHost != "static.example.com" {
			t.Errorf("SelfHost = %q", got.SelfHost)
		}
		if got.Headers["X-Team"] != "ops" || got.Headers["Accept-Language"] != "en" {
			t.Errorf("Headers = %v", got.Headers)
		}
	})

	t.Run("merging does not modify the defaults", func(t *testing.T) {
		t.Parallel()

		_ = cf.GetSiteConfig("intranet.example.com")
		if cf.Defaults.Headers["X-Team"] != "web" {
			t.Error("defaults were modified")
		}
	})

	t.Run("nil file", func(t *testing.T) {
		t.Parallel()

		var nilFile *File
		if got := nilFile.GetSiteConfig("a.example.com"); got.Cookie != "" || got.Headers != nil {
			t.Errorf("unexpected site config: %+v", got)
		}
	})
}

// TestSiteFor tests the per-target view of the configuration.
func TestSiteFor(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.SelfHost = "global.example.com"
	cfg.SiteConfigs = &File{Sites: map[string]SiteConfig{
		"shop.example.com": {UserAgent: "shop-agent", SelfHost: "cdn.shop.example.com"},
	}}

	got := cfg.SiteFor("https://shop.example.com:8443/cart")
	if got.UserAgent != "shop-agent" || got.SelfHost != "cdn.shop.example.com" {
		t.Errorf("unexpected site config: %+v", got)
	}

	got = cfg.SiteFor("page.html")
	if got.UserAgent != fetch.DefaultUserAgent || got.SelfHost != "global.example.com" {
		t.Errorf("unexpected fallback: %+v", got)
	}
}

// TestTargetHost tests host extraction.
func TestTargetHost(t *testing.T) {
	t.Parallel()

	for target, want := range map[string]string{
		"https://WWW.Example.com/x": "www.example.com",
		"http://a.example.com:81/":  "a.example.com",
		"index.html":                "",
		"-":                         "",
		"file:///srv/index.html":    "",
	} {
		if got := TargetHost(target); got != want {
			t.Errorf("TargetHost(%q) = %q, want %q", target, got, want)
		}
	}
}

// TestLoadConfigFile tests reading the YAML file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile(filepath.Join(t.TempDir(), DefaultConfigFile))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got %v", err)
		}
		if cf != nil {
			t.Error("expected nil file")
		}
	})

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `defaults:
  user_agent: "audit-bot/1.0"
sites:
  Intranet.Example.com:
    cookie: "session=xyz"
    self_host: "static.example.com"
    headers:
      Authorization: "Bearer token"
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Defaults.UserAgent != "audit-bot/1.0" {
			t.Errorf("Defaults.UserAgent = %q", cf.Defaults.UserAgent)
		}
		site, ok := cf.Sites["intranet.example.com"]
		if !ok {
			t.Fatalf("site keys should be lower-cased: %v", cf.Sites)
		}
		if site.Cookie != "session=xyz" || site.SelfHost != "static.example.com" {
			t.Errorf("unexpected site: %+v", site)
		}
		if site.Headers["Authorization"] != "Bearer token" {
			t.Errorf("Headers = %v", site.Headers)
		}
	})

	t.Run("invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [unclosed"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		_, err := LoadConfigFile(path)
		if err == nil || !strings.Contains(err.Error(), "failed to parse") {
			t.Errorf("expected parse error, got %v", err)
		}
	})
}

// TestFindConfigFile tests the explicit path cases.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("existing explicit path", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("FindConfigFile() = %q, want %q", got, path)
		}
	})

	t.Run("missing explicit path is not replaced", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("FindConfigFile() = %q, want empty", got)
		}
	})
}

// TestXDGConfigDir tests the application directory name.
func TestXDGConfigDir(t *testing.T) {
	t.Parallel()

	if filepath.Base(XDGConfigDir()) != AppName {
		t.Errorf("XDGConfigDir() = %q", XDGConfigDir())
	}
}

// TestValidHost tests self host validation.
func TestValidHost(t *testing.T) {
	t.Parallel()

	for host, want := range map[string]bool{
		"www.example.com":       true,
		"localhost:8080":        true,
		"":                      false,
		"example.com/path":      false,
		"user@example.com":      false,
		"https://example.com":   false,
		"two words.example.com": false,
	} {
		if got := ValidHost(host); got != want {
			t.Errorf("ValidHost(%q) = %v, want %v", host, got, want)
		}
	}
}
