package log

import (
	"context"
	"log/slog"
)

// SecureHandler wraps an slog.Handler and masks sensitive attribute values
// before the wrapped handler sees them.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
type SecureHandler struct {
	handler  slog.Handler
	redactor *redactor
}

// HandlerOption configures a SecureHandler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	extraKeys []string
}

// WithSensitiveKeys masks the values of the given attribute keys in
// addition to the built-in list. Keys match case-insensitively. It is used
// for custom header names from the configuration file.
func WithSensitiveKeys(keys ...string) HandlerOption {
	return func(o *handlerOptions) {
		o.extraKeys = append(o.extraKeys, keys...)
	}
}

// NewSecureHandler creates a SecureHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used.
func NewSecureHandler(handler slog.Handler, opts ...HandlerOption) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}

	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &SecureHandler{handler: handler, redactor: newRedactor(o.extraKeys)}
}

// Enabled delegates to the wrapped handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.mask(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs masks attrs before adding them to the wrapped handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.mask(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(masked), redactor: h.redactor}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name), redactor: h.redactor}
}

// mask returns a with sensitive values replaced. Groups are walked
// recursively.
func (h *SecureHandler) mask(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(masked...)}
	}

	if h.redactor.sensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	// Errors are checked by their message, which often quotes the URL.
	switch a.Value.Kind() {
	case slog.KindString, slog.KindAny:
		if v, changed := h.redactor.value(a.Value.String()); changed {
			return slog.String(a.Key, v)
		}
	}

	return a
}
