// Package cmd implements the command-line interface for taskreport.
//
// This package provides the following commands:
//   - report: Fetch the task list and print the deadline report
//   - version: Display version information
//
// The report command is the default command when no subcommand is specified.
// Settings resolve as flag, then TASKREPORT_* environment variable, then default.
package cmd
