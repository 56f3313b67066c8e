package log

import (
	"context"
	"io"
	"log/slog"
)

// Logger writes JSON log entries through slog. Every entry of the
// connector carries a namespace under the "ns" key.
type Logger struct {
	slogger *slog.Logger
}

// NewLogger creates a Logger writing to writer, usually os.Stderr. Debug
// entries are dropped unless debug is true.
func NewLogger(writer io.Writer, debug bool) Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	return Logger{
		slogger: slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: level,
		})),
	}
}

// IsInitialized returns whether the Logger was created with NewLogger.
func (l *Logger) IsInitialized() bool {
	return l.slogger != nil
}

// DebugEnabled reports whether debug entries are written.
func (l *Logger) DebugEnabled() bool {
	return l.IsInitialized() && l.slogger.Enabled(context.Background(), slog.LevelDebug)
}

func (l *Logger) write(level slog.Level, msg string, args []any) {
	if !l.IsInitialized() {
		return
	}
	l.slogger.Log(context.Background(), level, msg, args...)
}

// Info logs msg without a namespace. Only the first KV is used.
func (l *Logger) Info(msg string, keyVals ...KV) {
	l.write(slog.LevelInfo, msg, kvToArgs(keyVals...))
}

// DebugNs logs msg at debug level under namespace.
func (l *Logger) DebugNs(namespace string, msg string, keyVals ...KV) {
	l.write(slog.LevelDebug, msg, kvToArgsNs(namespace, keyVals...))
}

// WarnNs logs msg at warning level under namespace.
func (l *Logger) WarnNs(namespace string, msg string, keyVals ...KV) {
	l.write(slog.LevelWarn, msg, kvToArgsNs(namespace, keyVals...))
}

// ErrorNs logs msg at error level under namespace.
func (l *Logger) ErrorNs(namespace string, msg string, keyVals ...KV) {
	l.write(slog.LevelError, msg, kvToArgsNs(namespace, keyVals...))
}
