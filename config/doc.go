// Package config holds the immutable engine configuration (machine bounds,
// safety limits, logging preferences) and a loader that reads it from an
// optional TOML file with JOGCORE_* environment overrides.
package config
