// Package obslog provides the structured logging used by the peripheral
// rpc and cmd/prest layers. The estimation and consistency engines never
// import this package directly; they accept a subject.Logger interface
// instead, and main wires a *Logger in as that interface's implementation.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/prestsoftware/prest/subject"
)

// Logger wraps a zerolog.Logger and implements subject.Logger, so it can
// be passed directly to estimation.Run and consistency analyses.
type Logger struct {
	z zerolog.Logger
}

// New returns a Logger writing JSON lines to w at the given minimum level.
func New(w io.Writer, level zerolog.Level) *Logger {
	z := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &Logger{z: z}
}

// NewConsole returns a Logger writing human-readable lines to os.Stderr,
// for interactive CLI use (cmd/prest).
func NewConsole(level zerolog.Level) *Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	z := zerolog.New(cw).Level(level).With().Timestamp().Logger()
	return &Logger{z: z}
}

// With returns a child Logger with field added to every subsequent entry,
// used by the RPC server to tag every line with a request's correlation
// ID.
func (l *Logger) With(field, value string) *Logger {
	return &Logger{z: l.z.With().Str(field, value).Logger()}
}

// Log implements subject.Logger.
func (l *Logger) Log(level subject.LogLevel, message string) {
	l.event(level).Msg(message)
}

func (l *Logger) event(level subject.LogLevel) *zerolog.Event {
	switch level {
	case subject.LogDebug:
		return l.z.Debug()
	case subject.LogWarning:
		return l.z.Warn()
	case subject.LogError:
		return l.z.Error()
	default:
		return l.z.Info()
	}
}

// Progress implements subject.Logger: it emits a debug-level entry, since
// per-subject progress is too noisy for info level in a long-running
// estimation run.
func (l *Logger) Progress(position int) {
	l.z.Debug().Int("progress", position).Msg("subject scored")
}

// Zerolog returns the underlying zerolog.Logger, for components (rpc,
// cmd/prest) that want to log outside the subject.Logger contract, e.g.
// with structured fields zerolog.Event supports directly.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.z
}
