package ggmap

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// silentHandler drops every record. Because Enabled is always false, log
// calls made through it never build their attributes.
type silentHandler struct{}

func (silentHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (silentHandler) Handle(context.Context, slog.Record) error { return nil }
func (silentHandler) WithAttrs([]slog.Attr) slog.Handler        { return silentHandler{} }
func (silentHandler) WithGroup(string) slog.Handler             { return silentHandler{} }

var silent = slog.New(silentHandler{})

// current is read by every package on each log call and may be swapped
// by SetLogger while a map is being drawn or served.
var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger routes the log output of ggmap and its packages to l. A nil l
// switches logging off again, which is also the initial state.
//
// Levels:
//   - [slog.LevelDebug]: replay group statistics, spatial index reloads and hit candidates
//   - [slog.LevelInfo]: scene builds and command lifecycle
//   - [slog.LevelWarn]: fills, strokes or text the raster backend failed to draw
//
// The ggmap command installs a text handler on stderr:
//
//	ggmap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
