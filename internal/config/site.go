package config

import (
	"net/url"
	"strings"
)

// SiteConfig holds request settings for one host.
type SiteConfig struct {
	// Cookie is a raw cookie string, "name=value" or "a=1; b=2".
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are sent with every request to the site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global user agent.
	UserAgent string `yaml:"user_agent,omitempty"`

	// SelfHost overrides the global self host.
	SelfHost string `yaml:"self_host,omitempty"`
}

// File is the structure of the .csprecommend file.
type File struct {
	// Sites maps host names (without scheme or port) to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every target and are overridden field by field.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the defaults merged with the settings of host.
// Header maps are merged key by key. Host lookup ignores case.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}

	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	site, ok := cf.Sites[strings.ToLower(host)]
	if !ok {
		return result
	}
	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if site.SelfHost != "" {
		result.SelfHost = site.SelfHost
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		for k, v := range site.Headers {
			result.Headers[k] = v
		}
	}
	return result
}

// SiteFor returns the merged settings for target. Targets that are not
// http(s) URLs get the defaults.
func (c *Config) SiteFor(target string) SiteConfig {
	site := c.SiteConfigs.GetSiteConfig(TargetHost(target))
	if site.UserAgent == "" {
		site.UserAgent = c.UserAgent
	}
	if site.SelfHost == "" {
		site.SelfHost = c.SelfHost
	}
	return site
}

// TargetHost returns the lower-cased host name of an http(s) target, or ""
// for files and stdin.
func TargetHost(target string) string {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
