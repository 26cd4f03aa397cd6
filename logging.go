package seascape

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the scene's leveled logger. Debug lines are dropped unless
// DebugEnabled.
type Logger interface {
	DebugEnabled() bool
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes "[prefix] LEVEL: message" lines. Its level is fixed at
// construction.
type DefaultLogger struct {
	debug  bool
	prefix string
	out    *log.Logger
	err    *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewLoggerTo(os.Stdout, os.Stderr, prefix, debug)
}

// NewLoggerTo sends debug/info lines to out and warnings/errors to errOut.
func NewLoggerTo(out, errOut io.Writer, prefix string, debug bool) *DefaultLogger {
	flags := log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		out:    log.New(out, "", flags),
		err:    log.New(errOut, "", flags),
	}
}

func (l *DefaultLogger) DebugEnabled() bool { return l.debug }

func (l *DefaultLogger) line(level string, format string, args ...any) string {
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		return level + ": " + msg
	}
	return "[" + l.prefix + "] " + level + ": " + msg
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.debug {
		l.out.Print(l.line("DEBUG", format, args...))
	}
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.out.Print(l.line("INFO", format, args...))
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.err.Print(l.line("WARN", format, args...))
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.err.Print(l.line("ERROR", format, args...))
}

// LoggingModule installs the scene logger. Logger, when set, replaces the
// default one built from Prefix and Debug.
type LoggingModule struct {
	Prefix string
	Debug  bool
	Logger Logger
}

type loggerResource struct {
	Logger
}

func (m LoggingModule) Install(app *App, cmd *Commands) {
	logger := m.Logger
	if logger == nil {
		logger = NewDefaultLogger(m.Prefix, m.Debug)
	}
	cmd.AddResources(&loggerResource{Logger: logger})
}

type nopLogger struct{}

func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Logger returns the installed logger, or a no-op logger. Never nil.
func (app *App) Logger() Logger {
	if app == nil {
		return NewNopLogger()
	}
	if res, ok := Resource[loggerResource](app); ok && res.Logger != nil {
		return res.Logger
	}
	return NewNopLogger()
}
