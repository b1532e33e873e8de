// Package logging assembles structured slog loggers used across clipforge.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so conversion code can tag log
// lines with session and correlation IDs. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
