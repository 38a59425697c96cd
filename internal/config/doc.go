// Package config loads, normalizes, and validates bcimerge tool settings.
//
// Settings come from repository defaults, then an optional TOML file
// (~/.config/bcimerge/config.toml, ./bcimerge.toml, or an explicit path),
// then BCIMERGE_* environment variables. Paths are tilde-expanded and made
// absolute before validation so downstream packages receive usable values.
//
// Per-build inputs (session pairs, shift, window length) live in job
// manifests, not here; the [defaults] section only fills gaps a manifest
// leaves open.
package config
