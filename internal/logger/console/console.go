package console

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger writes leveled, key/value console output through charmbracelet/log.
type Logger struct {
	l *log.Logger
}

type Params struct {
	Debug  bool
	JSON   bool
	Output io.Writer
}

func New(p Params) *Logger {
	out := p.Output
	if out == nil {
		out = os.Stderr
	}
	level := log.InfoLevel
	if p.Debug {
		level = log.DebugLevel
	}
	opts := log.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "pfdgen",
	}
	if p.JSON {
		opts.Formatter = log.JSONFormatter
	}
	return &Logger{l: log.NewWithOptions(out, opts)}
}

func (c *Logger) Debug(message string, keyvals ...any) { c.l.Debug(message, keyvals...) }
func (c *Logger) Info(message string, keyvals ...any)  { c.l.Info(message, keyvals...) }
func (c *Logger) Warn(message string, keyvals ...any)  { c.l.Warn(message, keyvals...) }
func (c *Logger) Error(message string, keyvals ...any) { c.l.Error(message, keyvals...) }
func (c *Logger) Fatal(message string, keyvals ...any) { c.l.Fatal(message, keyvals...) }
