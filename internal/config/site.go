package config

// SiteConfig holds per-site crawl overrides loaded from the .seoscan
// file. All fields are optional; empty values fall back to the
// defaults section and then to the built-in defaults.
type SiteConfig struct {
	// Cookie is sent as the Cookie header, for auditing pages behind a
	// session login.
	Cookie string `yaml:"cookie"`

	// Headers holds extra HTTP headers sent with every request to the
	// site.
	Headers map[string]string `yaml:"headers"`

	// MaxPages overrides the page cap for this site. Zero means no
	// override.
	MaxPages int `yaml:"maxPages"`

	// UserAgent overrides the User-Agent header for this site.
	UserAgent string `yaml:"userAgent"`
}

// File is the parsed .seoscan configuration file.
//
// Example:
//
//	defaults:
//	  userAgent: "my-crawler/1.0"
//	sites:
//	  example.com:
//	    cookie: "session=..."
//	    maxPages: 100
type File struct {
	// Defaults applies to every site that has no specific entry or
	// leaves a field empty.
	Defaults SiteConfig `yaml:"defaults"`

	// Sites maps a hostname to its overrides.
	Sites map[string]SiteConfig `yaml:"sites"`
}

// GetSiteConfig returns the effective configuration for host, merging
// the site entry over the defaults section. A nil receiver yields an
// empty SiteConfig so callers need no nil checks.
func (f *File) GetSiteConfig(host string) SiteConfig {
	if f == nil {
		return SiteConfig{}
	}

	merged := f.Defaults
	site, ok := f.Sites[host]
	if !ok {
		return merged
	}

	if site.Cookie != "" {
		merged.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		merged.UserAgent = site.UserAgent
	}
	if site.MaxPages > 0 {
		merged.MaxPages = site.MaxPages
	}
	if len(site.Headers) > 0 {
		if merged.Headers == nil {
			merged.Headers = make(map[string]string, len(site.Headers))
		} else {
			// Copy so a merge never mutates the defaults map.
			copied := make(map[string]string, len(merged.Headers)+len(site.Headers))
			for k, v := range merged.Headers {
				copied[k] = v
			}
			merged.Headers = copied
		}
		for k, v := range site.Headers {
			merged.Headers[k] = v
		}
	}
	return merged
}
