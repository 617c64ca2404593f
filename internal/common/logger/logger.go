package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimestampFieldName = "timestamp"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

type Logger struct {
	service string
	zl      zerolog.Logger
}

func New(service string) *Logger { return NewWithWriter(service, os.Stdout) }

func NewWithWriter(service string, w io.Writer) *Logger {
	zl := zerolog.New(w).With().
		Timestamp().
		Str("service", service).
		Str("hostname", hostname()).
		Logger()
	return &Logger{service: service, zl: zl}
}

// Nop discards everything; used by tests.
func Nop() *Logger { return &Logger{service: "nop", zl: zerolog.Nop()} }

// SetLevel accepts zerolog level names ("debug", "info", ...). Unknown names keep the current level.
func (l *Logger) SetLevel(level string) {
	if lv, err := zerolog.ParseLevel(level); err == nil && level != "" {
		l.zl = l.zl.Level(lv)
	}
}

// With returns a child logger that attaches fields to every entry.
func (l *Logger) With(fields map[string]any) *Logger {
	return &Logger{service: l.service, zl: l.zl.With().Fields(fields).Logger()}
}

func (l *Logger) log(ev *zerolog.Event, action string, fields map[string]any) {
	if fields != nil {
		ev = ev.Fields(fields)
	}
	ev.Str("action", action).Msg(action)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(l.zl.Info(), action, fields) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(l.zl.Debug(), action, fields) }
func (l *Logger) Warn(action string, fields map[string]any)  { l.log(l.zl.Warn(), action, fields) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(l.zl.Error().Err(err), action, fields)
}

func hostname() string { h, _ := os.Hostname(); return h }
