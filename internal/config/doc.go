// Package config loads, normalizes, and validates assetcarver configuration data.
//
// It supplies repository defaults (including the per-platform Roblox cache
// location), expands user paths with tilde shortcuts, reads TOML files, and
// honours the ASSETCARVER_CACHE_DIR environment fallback. The Config type
// centralizes every knob the extraction engine and CLI need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a resolved worker count, and clear validation errors.
package config
