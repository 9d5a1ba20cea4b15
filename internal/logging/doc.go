// Package logging assembles structured slog loggers and formatting helpers used
// across cinepick.
//
// It owns the configurable console/JSON handlers, routes output to stderr and
// an optional size-rotated log file, and exposes context-aware helpers so
// request handling code can tag log lines with request IDs automatically. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
