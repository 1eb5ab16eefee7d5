// Package logging configures structured logging for resindex using slog.
//
// Text output goes through [Handler], a compact TTY-oriented handler that
// colorizes levels when the writer is a terminal and abbreviates file system
// paths under the user's home directory to "~". JSON output uses the
// standard library handler. [MultiHandler] fans records out to several
// handlers, which the CLI uses for --log-file.
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(2),
//		Format: logging.FormatText,
//	})
//	logger.Debug("scan completed", "path", dir, "count", n)
//
// Library packages accept a *slog.Logger and default to [NewDiscard]. Tests
// use [ForTest] so log lines show up only for failing or -v runs.
package logging
