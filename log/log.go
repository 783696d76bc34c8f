// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Logger writes key/value pairs to a handler.
type Logger = ethlog.Logger

// Levels, from most to least verbose.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Root returns the root logger.
func Root() Logger {
	return ethlog.Root()
}

// SetDefault replaces the root logger.
// Loggers created by WithContext follow the replacement.
func SetDefault(l Logger) {
	ethlog.SetDefault(l)
}

// NewLogger returns a logger with the given handler.
func NewLogger(h slog.Handler) Logger {
	return ethlog.NewLogger(h)
}

// FromVerbosity maps the 0 (crit) .. 5 (trace) verbosity scale onto levels.
func FromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

// JSONHandler returns a handler which writes one json object per record.
func JSONHandler(w io.Writer) slog.Handler {
	return ethlog.JSONHandler(w)
}

// JSONHandlerWithLevel returns a json handler filtered at level.
func JSONHandlerWithLevel(w io.Writer, level slog.Leveler) slog.Handler {
	return ethlog.JSONHandlerWithLevel(w, level.Level())
}

// NewTerminalHandlerWithLevel returns a human friendly handler filtered at level.
func NewTerminalHandlerWithLevel(w io.Writer, level slog.Leveler, useColor bool) slog.Handler {
	return ethlog.NewTerminalHandlerWithLevel(w, level.Level(), useColor)
}

// DiscardHandler returns a handler dropping every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// WithContext returns a logger carrying ctx which resolves the root logger on every call,
// so package level loggers pick up a root installed later by the daemon.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

type lazyLogger struct {
	ctx []any
}

func (l *lazyLogger) resolve() Logger {
	return Root().With(l.ctx...)
}

func (l *lazyLogger) With(ctx ...any) Logger {
	return &lazyLogger{ctx: append(append([]any{}, l.ctx...), ctx...)}
}

func (l *lazyLogger) New(ctx ...any) Logger { return l.With(ctx...) }

func (l *lazyLogger) Log(level slog.Level, msg string, ctx ...any) {
	l.resolve().Log(level, msg, ctx...)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.resolve().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.resolve().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.resolve().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.resolve().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.resolve().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.resolve().Crit(msg, ctx...) }

func (l *lazyLogger) Write(level slog.Level, msg string, attrs ...any) {
	l.resolve().Write(level, msg, attrs...)
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return Root().Enabled(ctx, level)
}

func (l *lazyLogger) Handler() slog.Handler {
	return l.resolve().Handler()
}
