package bullq

import (
	"fmt"
	"io"
	"os"
)

// Logger defines logging methods used by the library. Implementations should be cheap.
// Default is a no-op logger; use NewFmtLogger for level-prefixed output.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// FmtLogger prints messages with level prefixes.
// Debug/Info go to Out; Warn/Error go to Err.
type FmtLogger struct {
	Out io.Writer
	Err io.Writer
}

// NewFmtLogger creates a FmtLogger writing to stdout and stderr.
func NewFmtLogger() *FmtLogger { return &FmtLogger{Out: os.Stdout, Err: os.Stderr} }

func (l *FmtLogger) Debugf(format string, args ...any) { l.write(l.Out, "[DEBUG] ", format, args) }
func (l *FmtLogger) Infof(format string, args ...any)  { l.write(l.Out, "[INFO]  ", format, args) }
func (l *FmtLogger) Warnf(format string, args ...any)  { l.write(l.Err, "[WARN]  ", format, args) }
func (l *FmtLogger) Errorf(format string, args ...any) { l.write(l.Err, "[ERROR] ", format, args) }

func (l *FmtLogger) write(w io.Writer, level, format string, args []any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, level+format+"\n", args...)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
