// Package logging holds the process-wide structured logger.
//
// Log output goes to stderr so stdout stays reserved for command results
// and the MCP stdio transport.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/m-mizutani/clog"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = slog.LevelWarn

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type ctxKey struct{}

// New builds a logger writing human-readable records to w.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithColor(color),
	))
}

// Default returns the process-wide logger. It discards everything until
// SetDefault is called.
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger. A nil logger is ignored.
func SetDefault(l *slog.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = l
}

// With attaches l to ctx.
func With(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger attached to ctx, or Default.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// ParseLevel maps debug, info, warn and error (case-insensitive) to a level.
// An empty string yields DefaultLevel.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return DefaultLevel, fmt.Errorf("unknown log level %q", s)
	}
}
