// Package logger provides slog handlers shared by the catalog binaries.
package logger

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5/middleware"
)

type ctxAttrsKey struct{}

// AppendCtx returns a copy of ctx carrying attrs in addition to those already attached.
// Every record logged with the returned context through a ContextHandler includes them.
func AppendCtx(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}
	existing := attrsFromCtx(ctx)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, ctxAttrsKey{}, merged)
}

func attrsFromCtx(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(ctxAttrsKey{}).([]slog.Attr)
	return attrs
}

// ContextHandler decorates records with request-scoped values found in their context:
// the chi request ID and any attributes attached with AppendCtx.
type ContextHandler struct {
	slog.Handler
}

// NewContextHandler wraps handler.
func NewContextHandler(handler slog.Handler) *ContextHandler {
	return &ContextHandler{
		Handler: handler,
	}
}

// Handle adds the context values to the record before passing it on.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		r.AddAttrs(slog.String("request_id", reqID))
	}
	r.AddAttrs(attrsFromCtx(ctx)...)
	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the wrapper so derived loggers still read the context.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the wrapper so derived loggers still read the context.
func (h *ContextHandler) WithGroup(group string) slog.Handler {
	return &ContextHandler{Handler: h.Handler.WithGroup(group)}
}
