package debug

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel traduce LOG_LEVEL (error|warn|info|debug); por defecto info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return slog.LevelError
	case "warn", "warning":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger crea el logger de la aplicación: JSON en producción, texto en desarrollo.
// Si hub no es nil, los registros warn+ también se envían al dashboard.
func NewLogger(w io.Writer, level string, jsonFormat bool, hub *Hub) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if jsonFormat {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	if hub != nil {
		handler = &hubHandler{next: handler, hub: hub, min: slog.LevelWarn}
	}
	return slog.New(handler)
}

// hubHandler reenvía registros al Hub además del handler original
type hubHandler struct {
	next  slog.Handler
	hub   *Hub
	min   slog.Level
	attrs []slog.Attr
}

func (h *hubHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *hubHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.min {
		metadata := make(map[string]interface{}, r.NumAttrs()+len(h.attrs))
		for _, a := range h.attrs {
			metadata[a.Key] = a.Value.Any()
		}
		r.Attrs(func(a slog.Attr) bool {
			metadata[a.Key] = a.Value.Any()
			return true
		})
		h.hub.SendLog("backend", strings.ToLower(r.Level.String()), r.Message, metadata)
	}
	return h.next.Handle(ctx, r)
}

func (h *hubHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &hubHandler{next: h.next.WithAttrs(attrs), hub: h.hub, min: h.min, attrs: merged}
}

func (h *hubHandler) WithGroup(name string) slog.Handler {
	return &hubHandler{next: h.next.WithGroup(name), hub: h.hub, min: h.min, attrs: h.attrs}
}
