// Package logger wraps zerolog behind the small surface the services need.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Logger struct {
	zl zerolog.Logger
}

// New builds the root logger. Level is parsed leniently; anything
// unrecognized falls back to info.
func New(level string) Logger {
	return NewWithWriter(os.Stdout, level)
}

func NewWithWriter(w io.Writer, level string) Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return Logger{zl: zl}
}

// Named returns a sub-logger tagged with a component name.
func (l Logger) Named(component string) Logger {
	return Logger{zl: l.zl.With().Str("component", component).Logger()}
}

func (l Logger) Debug(msg string, kv ...any) { l.emit(l.zl.Debug(), msg, kv) }
func (l Logger) Info(msg string, kv ...any)  { l.emit(l.zl.Info(), msg, kv) }
func (l Logger) Warn(msg string, kv ...any)  { l.emit(l.zl.Warn(), msg, kv) }
func (l Logger) Error(msg string, kv ...any) { l.emit(l.zl.Error(), msg, kv) }
func (l Logger) Fatal(msg string, kv ...any) { l.emit(l.zl.Fatal(), msg, kv) }

// emit attaches alternating key/value pairs. A trailing key without a value
// is logged as-is under "arg".
func (l Logger) emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = "arg"
		}
		if err, ok := kv[i+1].(error); ok && err != nil {
			ev = ev.AnErr(key, err)
			continue
		}
		ev = ev.Interface(key, kv[i+1])
	}
	if len(kv)%2 == 1 {
		ev = ev.Interface("arg", kv[len(kv)-1])
	}
	ev.Msg(msg)
}

// Nop returns a logger that discards everything, for tests.
func Nop() Logger {
	return Logger{zl: zerolog.Nop()}
}
