// Package logging assembles structured slog loggers and formatting helpers used
// across cantor.
//
// It owns the console/JSON handlers and level and output plumbing, and exposes
// context-aware helpers so pipeline code can tag log lines with song IDs, run
// IDs and stages. A no-op logger serves tests and library callers that pass a
// nil logger.
package logging
