// Package logging assembles the structured slog loggers used across the
// casement daemon and CLI.
//
// It owns the console and JSON handlers, level and output plumbing, and the
// standardized field keys that tag log lines with components, connection
// correlation ids, and window ids. A no-op logger is provided for tests and
// wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines with the same shape.
package logging
