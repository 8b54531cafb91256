package config

// SiteConfig holds site-specific configuration for a single host. This lets
// one config file carry credentials and limits for several documentation
// sites that are crawled at different times.
type SiteConfig struct {
	// AuthHeader is an Authorization header value to use for this site.
	// A leading "Authorization:" prefix is accepted.
	AuthHeader string `yaml:"authHeader,omitempty"`

	// Cookie is an HTTP cookie string to use when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// MaxPages overrides the global page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Concurrency overrides the global batch size for this site.
	// If zero, the global Concurrency is used.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// File represents the structure of the .mdcrawl configuration file.
type File struct {
	// Sites maps hostnames to their site-specific configurations.
	// Keys are bare hosts (e.g., "docs.example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host, merging the
// site-specific entry over the file's defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.AuthHeader != "" {
			result.AuthHeader = siteConfig.AuthHeader
		}
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.Concurrency != 0 {
			result.Concurrency = siteConfig.Concurrency
		}
	}

	return result
}
