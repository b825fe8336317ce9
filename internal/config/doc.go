// Package config loads, normalizes, and validates cantor configuration.
//
// It supplies defaults for every pipeline threshold, expands user paths
// (including tilde shortcuts), reads TOML files, and honours the
// CANTOR_LOG_LEVEL environment override. Commands obtain their stage options
// through the accessors here so builds and scoring runs agree on thresholds.
package config
