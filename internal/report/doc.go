// Package report turns a list of task records into the task analysis report.
//
// Analyze is a pure function of the records and the reference instant; Render
// writes the fixed-format text; Reporter ties both to a clock, metrics and
// tracing for the CLI.
//
// Due values are read as UTC wall-clock times: a trailing Z or an explicit
// offset is accepted but discarded, never converted. A task counts as upcoming
// when its due time is at or after now. The countdown for the nearest upcoming
// task is measured to 23:59:59 of its due date.
package report
