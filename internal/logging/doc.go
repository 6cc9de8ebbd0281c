// Package logging assembles the structured slog loggers used across higgsctl.
//
// It owns level parsing, console/JSON handler selection, and small attr
// helpers so command and client code emit log lines with a consistent shape.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
