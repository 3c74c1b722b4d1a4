// Package cli implements the ocitysmap command-line interface.
//
// This package provides commands for planning atlas, multi-page and
// single-page city maps, building indexes from a gazetteer, listing the
// paper formats an area fits on, browsing a computed plan and managing the
// plan cache. The CLI is built using cobra and supports verbose logging via
// the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - plan: Paginate an area, lay grids and build the index
//   - index: Build an index for an area and export it as CSV
//   - papers: List compatible paper formats for an area
//   - pages: Browse the pages of a plan file interactively
//   - cache: Manage the plan cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage. Loggers are passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pi-bie/ocitysmap/pkg/pipeline"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
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

// done logs msg along with the elapsed time since progress was created.
// Example output: "Planned 12 map pages (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// statusReporter returns the job status callback of the plan command. It
// logs every message at debug level and shows it on the spinner, if any.
// The job is refused once ctx is done.
func statusReporter(ctx context.Context, l *log.Logger, s *Spinner) pipeline.StatusFunc {
	return func(msg string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.Debug(msg)
		if s != nil {
			s.SetMessage(msg)
		}
		return nil
	}
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
