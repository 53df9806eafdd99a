// Package logging is the ambient structured-logging wrapper used across
// this module: a package-level L(component) logger and an Init that
// swaps the process-wide handler between text and JSON output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// KeyComponent is the structured field every L(component) logger attaches.
const KeyComponent = "component"

type contextKey struct{}

// switchableHandler lets package-level loggers created before Init runs
// pick up the configured handler retroactively, since L() and its
// callers may run at package-init time before Init has been called.
//
// WithAttrs/WithGroup calls are recorded as an ordered list of ops rather
// than two separate flat slices: slog.Handler requires attrs added before
// a WithGroup call to stay outside that group while attrs added after it
// nest inside, and replaying a single ordered list against whatever the
// current base handler is (materialize) is the only way to get that
// right once the base handler can change out from under an
// already-built logger.
type switchableHandler struct {
	state *switchableState
	ops   []handlerOp
}

// handlerOp is either a WithAttrs call (attrs non-nil) or a WithGroup
// call (group non-empty), in the order they were applied.
type handlerOp struct {
	attrs []slog.Attr
	group string
}

// handlerBox gives every value stored in switchableState.current the same
// concrete type, since atomic.Value panics when that type changes (text
// handler first, JSON handler after Init).
type handlerBox struct{ h slog.Handler }

type switchableState struct {
	current atomic.Value // stores handlerBox
}

func newSwitchableHandler(h slog.Handler) *switchableHandler {
	state := &switchableState{}
	state.current.Store(handlerBox{h})
	return &switchableHandler{state: state}
}

func (h *switchableHandler) set(handler slog.Handler) {
	h.state.current.Store(handlerBox{handler})
}

func (h *switchableHandler) base() slog.Handler {
	return h.state.current.Load().(handlerBox).h
}

func (h *switchableHandler) materialize() slog.Handler {
	handler := h.base()
	for _, op := range h.ops {
		if op.group != "" {
			handler = handler.WithGroup(op.group)
		} else {
			handler = handler.WithAttrs(op.attrs)
		}
	}
	return handler
}

func (h *switchableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.materialize().Enabled(ctx, level)
}

func (h *switchableHandler) Handle(ctx context.Context, record slog.Record) error {
	return h.materialize().Handle(ctx, record)
}

func (h *switchableHandler) withOp(op handlerOp) *switchableHandler {
	ops := make([]handlerOp, len(h.ops), len(h.ops)+1)
	copy(ops, h.ops)
	ops = append(ops, op)
	return &switchableHandler{state: h.state, ops: ops}
}

func (h *switchableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.withOp(handlerOp{attrs: attrs})
}

func (h *switchableHandler) WithGroup(name string) slog.Handler {
	return h.withOp(handlerOp{group: name})
}

var (
	rootHandler   = newSwitchableHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	defaultLogger = slog.New(rootHandler)
)

func init() {
	slog.SetDefault(defaultLogger)
}

// Init swaps the process-wide handler. format is "json" or "text"
// (default "text"); level is "debug", "info", "warn", or "error" (default
// "info"); output defaults to os.Stdout when nil.
func Init(format, level string, output io.Writer) {
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	rootHandler.set(handler)
	defaultLogger = slog.New(rootHandler)
	slog.SetDefault(defaultLogger)
}

// L returns a logger tagged with the given component name.
func L(component string) *slog.Logger {
	return defaultLogger.With(slog.String(KeyComponent, component))
}

// NewContext returns a new context carrying the given logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts the logger from context, falling back to the
// package default.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
