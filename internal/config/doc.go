// Package config holds the configuration surface of seoscan.
//
// The Config struct is populated from CLI flags and passed through the
// application by dependency injection; there is no global configuration
// state. Site-specific overrides (authentication cookies, extra headers,
// per-site page caps) are loaded from an optional .seoscan YAML file
// found in the current directory or the user's home directory.
package config
