// Package logging configures the process-wide slog loggers used by the
// command line tools and service packages. DSP packages never log.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LevelTrace sits below Debug for per-block diagnostics.
const LevelTrace = slog.Level(-8)

// Format selects the handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configure Init.
type Options struct {
	Level  string
	Format Format
	Output io.Writer
}

var (
	mu    sync.RWMutex
	root  = slog.New(slog.NewTextHandler(os.Stderr, nil))
	level = new(slog.LevelVar)
)

// ParseLevel accepts trace, debug, info, warn/warning and error in any case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("logging: unknown level %q", s)
	}
}

// Init replaces the root logger and makes it the slog default.
func Init(opts Options) error {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	level.Set(lvl)

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceLevelName,
	}

	var h slog.Handler

	switch opts.Format {
	case FormatJSON:
		h = slog.NewJSONHandler(out, handlerOpts)
	case FormatText, "":
		h = slog.NewTextHandler(out, handlerOpts)
	default:
		return fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	mu.Lock()
	root = slog.New(h)
	mu.Unlock()

	slog.SetDefault(root)

	return nil
}

// SetLevel changes the level of the root logger without rebuilding it.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// Level returns the active level.
func Level() slog.Level {
	return level.Level()
}

// ForService returns a child logger tagged with the service name.
func ForService(name string) *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return root.With("service", name)
}

func replaceLevelName(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}

	if l, ok := a.Value.Any().(slog.Level); ok && l == LevelTrace {
		a.Value = slog.StringValue("TRACE")
	}

	return a
}
