// Package config loads, normalizes, and validates tunetidy configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ACOUSTID_API_KEY. The Config type centralizes every knob the CLI needs,
// so source/output directories, templates, and credentials are discovered in
// one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical templates, and clear validation errors.
package config
