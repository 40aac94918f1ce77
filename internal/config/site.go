package config

import (
	"maps"
	"strings"
	"time"

	"github.com/nao1215/wordrank/internal/fetch"
)

// SiteConfig holds request settings for one host.
// This allows fetching pages that need a login cookie or special headers.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send to this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the User-Agent for this site.
	UserAgent string `yaml:"userAgent,omitempty"`
}

// AnalysisConfig holds analysis settings of the config file.
// Zero values leave the built-in defaults in place.
type AnalysisConfig struct {
	// Alphabet is "ascii" or "unicode".
	Alphabet string `yaml:"alphabet,omitempty"`

	// StopWordsFile replaces the built-in stop-word list.
	StopWordsFile string `yaml:"stopWordsFile,omitempty"`

	// ExtraStopWords are added to the stop-word list.
	ExtraStopWords []string `yaml:"extraStopWords,omitempty"`

	// Top is the number of ranked words shown in reports.
	Top int `yaml:"top,omitempty"`

	// Timeout is the per-request fetch timeout, e.g. "30s".
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// BatchSize is the number of URLs analysed concurrently.
	BatchSize int `yaml:"batchSize,omitempty"`
}

// ServerConfig holds settings of the HTTP server.
type ServerConfig struct {
	// Addr is the listen address, e.g. "127.0.0.1:5000".
	Addr string `yaml:"addr,omitempty"`
}

// File represents the structure of the .wordrank configuration file.
type File struct {
	// Analysis holds analysis defaults.
	Analysis AnalysisConfig `yaml:"analysis,omitempty"`

	// Server holds HTTP server settings.
	Server ServerConfig `yaml:"server,omitempty"`

	// Sites maps host names to their request settings.
	// Keys are host names without scheme or port (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains request settings applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults. Host names are
// matched case-insensitively.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults
	result.Headers = maps.Clone(cf.Defaults.Headers)

	siteConfig, ok := cf.Sites[host]
	if !ok {
		for name, sc := range cf.Sites {
			if strings.EqualFold(name, host) {
				siteConfig, ok = sc, true
				break
			}
		}
	}
	if !ok {
		return result
	}

	if siteConfig.Cookie != "" {
		result.Cookie = siteConfig.Cookie
	}
	if siteConfig.UserAgent != "" {
		result.UserAgent = siteConfig.UserAgent
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(siteConfig.Headers))
		}
		maps.Copy(result.Headers, siteConfig.Headers)
	}

	return result
}

// SettingsFunc returns a lookup of per-host request settings for the fetch
// client. It returns nil when cf is nil, which disables the lookup.
func (cf *File) SettingsFunc() fetch.SettingsFunc {
	if cf == nil {
		return nil
	}
	return func(host string) fetch.RequestSettings {
		sc := cf.GetSiteConfig(host)
		return fetch.RequestSettings{
			UserAgent: sc.UserAgent,
			Cookie:    sc.Cookie,
			Headers:   sc.Headers,
		}
	}
}
