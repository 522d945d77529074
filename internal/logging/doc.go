// Package logging provides structured logging utilities for taskreport.
//
// All diagnostics go to standard error through log/slog so that standard output
// carries nothing but the report. The handler is chosen from the destination:
// a colourised tint handler when writing to a terminal, JSON otherwise.
//
// # Usage Patterns
//
// Create a logger and tag it with the operation being performed:
//
//	logger := logging.New(os.Stderr, logging.ParseLevel("debug"))
//	logger = logging.WithOperation(logger, "tasks.fetch")
//	logger.Info("fetched tasks", logging.Count(len(tasks)))
//
// Attribute keys are constants so log queries stay stable across releases.
package logging
