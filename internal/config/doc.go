// Package config loads, normalizes, and validates the toolkit's TOML
// configuration.
package config
