// Package config loads, normalizes, and validates clipforge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CLIPFORGE_FFMPEG and CLIPFORGE_OUTPUT_DIR. The Config type centralizes the
// engine binaries, the workspace and output directories, and the defaults
// applied to submitted conversion forms.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
