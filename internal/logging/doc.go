// Package logging assembles structured slog loggers and formatting helpers used
// across openingline commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code can tag log lines
// with candidate IDs, stages, and run correlation IDs. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
package logging
