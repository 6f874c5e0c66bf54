// Package cli implements the exhibitnet command-line interface.
//
// # Commands
//
//   - layout: compute one year's layout and write it as JSON
//   - render: render one year to SVG, PNG, DOT or JSON
//   - years: list the years present in the tables
//   - explore: interactive year browser with pan and zoom
//   - serve: HTTP API with Prometheus metrics
//   - config: print the effective TOML configuration
//   - cache: manage the local cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports per-record anomalies (skipped rows, invalid membership vectors,
// duplicate edges).
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time rounded to the millisecond,
// e.g. "Loaded 2 tables (1.234s)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
