// Package config loads, normalizes, and validates chaptermux configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CHAPTERMUX_FFMPEG environment
// fallback. The Config type centralizes every knob the CLI and workflow need:
// tool binaries, the metadata document name, chapter ingestion and stitching
// policy, subtitle codec, and output naming.
//
// Always obtain settings through this package so downstream code receives
// sanitized values and clear validation errors.
package config
