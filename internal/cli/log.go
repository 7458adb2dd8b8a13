package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI's stderr logger. Timestamps carry milliseconds
// so --verbose output shows how long each pipeline stage took.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.000",
		Level:           level,
	})
}

// logElapsed logs an info line suffixed with the time since start,
// e.g. "Materialized 42 rows (1.234s)".
func logElapsed(l *log.Logger, start time.Time, format string, args ...any) {
	l.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(start).Round(time.Millisecond))
}
