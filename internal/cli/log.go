// Package cli implements the stacklayout command-line interface.
//
// The commands load a layout document (JSON, TOML or YAML), resolve it into
// absolute references and either print them, render them, or serve the same
// pipeline over HTTP. Results are cached according to the configuration.
//
// # Commands
//
//   - resolve: Print resolved references as a table or JSON
//   - render: Generate SVG, PNG, JPEG, PDF, JSON or DOT output
//   - tree: Draw the container hierarchy with Graphviz
//   - inspect: Browse references interactively
//   - validate: Check a document without resolving it
//   - serve: Run the HTTP API
//   - cache: Manage the resolve and render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Otherwise the
// level comes from log.level in the config file or STACKLAYOUT_LOG_LEVEL.
//
// # Configuration
//
// --config names a YAML, TOML or JSON config file; without it
// $XDG_CONFIG_HOME/stacklayout/config.yaml is read if present.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped ("15:04:05.00") lines to w at level and
// above.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long a command took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs "msg (elapsed)" at info, rounded to the millisecond.
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
