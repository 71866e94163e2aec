// Package logging builds the slog loggers used across shelfsort.
//
// Two output formats are supported: a compact console format for interactive
// runs and a JSON format for log shipping. Pipeline stages attach a component
// attribute via NewComponentLogger and the runner stamps each run with a
// run_id so interleaved log files stay attributable.
package logging
