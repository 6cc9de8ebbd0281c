// Package config loads, normalizes, and validates higgsctl configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// COOKIE_VAULT_KEY. The Config type centralizes every knob the CLI needs so
// service endpoints, pipeline timing, and vault credentials are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
