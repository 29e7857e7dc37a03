// Package logging provides structured logging helpers built on log/slog.
//
// It defines canonical attribute keys used across the application and
// helpers that keep PII (email addresses, tokens) out of log output.
package logging
