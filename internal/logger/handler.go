package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

// filteringHandler wraps a base slog.Handler, dropping records by
// originating package.
type filteringHandler struct {
	baseHandler slog.Handler
	cfg         *Config
}

func newFilteringHandler(base slog.Handler, cfg *Config) *filteringHandler {
	return &filteringHandler{baseHandler: base, cfg: cfg}
}

func (h *filteringHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.baseHandler.Enabled(ctx, level)
}

func (h *filteringHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.cfg == nil {
		return h.baseHandler.Handle(ctx, r)
	}
	if pkg := recordPackage(r); pkg != "" {
		pkgLower := strings.ToLower(pkg)
		if _, found := h.cfg.disabledPackagesSet[pkgLower]; found {
			return nil
		}
		if h.cfg.enabledPackagesSet != nil {
			if _, found := h.cfg.enabledPackagesSet[pkgLower]; !found {
				return nil
			}
		}
	}
	return h.baseHandler.Handle(ctx, r)
}

// recordPackage resolves the record's originating package directory
// from its source attribute or program counter.
func recordPackage(r slog.Record) string {
	var pkg string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == slog.SourceKey {
			if source, ok := a.Value.Any().(*slog.Source); ok && source != nil && source.File != "" {
				pkg = filepath.Base(filepath.Dir(source.File))
			}
			return false
		}
		return true
	})
	if pkg == "" && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		if frame, _ := frames.Next(); frame.File != "" {
			pkg = filepath.Base(filepath.Dir(frame.File))
		}
	}
	return pkg
}

func (h *filteringHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithAttrs(attrs), h.cfg)
}

func (h *filteringHandler) WithGroup(name string) slog.Handler {
	return newFilteringHandler(h.baseHandler.WithGroup(name), h.cfg)
}
