// Package config loads, defaults, and validates the TOML configuration
// for jellywatch.
package config
