// Package logging builds slog loggers with console or JSON output and
// combined stdout/file writers.
package logging
