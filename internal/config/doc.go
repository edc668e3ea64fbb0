// Package config loads, validates, and normalizes casement configuration.
//
// It owns the TOML schema, repository defaults, tilde expansion for path
// fields, and the embedded sample config written by `casement config init`.
// Loading falls back to defaults when no file exists so the daemon runs out
// of the box with the control socket disabled.
package config
