package clog

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type chiConfig struct {
	skipPaths []string
}

type ChiOption func(*chiConfig)

// WithChiSkipPaths disables the access log for the given request paths.
// Attributes are still collected so handlers can log on their own.
func WithChiSkipPaths(paths ...string) ChiOption {
	return func(cfg *chiConfig) {
		cfg.skipPaths = append(cfg.skipPaths, paths...)
	}
}

// SlogChiMiddleware writes one access log line per request, at a level
// derived from the response status. The line carries the matched route
// pattern, so "/api/tasks/{id}" is logged once per task rather than per id.
func SlogChiMiddleware(opts ...ChiOption) func(http.Handler) http.Handler {
	cfg := chiConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ctx := ContextWithSlog(r.Context())
			AddAttributes(ctx, map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
				"proto":  r.Proto,
			})
			if reqID := middleware.GetReqID(ctx); reqID != "" {
				AddAttribute(ctx, "request_id", reqID)
			}

			next.ServeHTTP(ww, r.WithContext(ctx))

			if slices.Contains(cfg.skipPaths, r.URL.Path) {
				return
			}
			if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
				AddAttribute(ctx, "route", rctx.RoutePattern())
			}
			AddAttributes(ctx, map[string]any{
				"status":        ww.Status(),
				"bytes_written": ww.BytesWritten(),
				"duration":      time.Since(startTime),
			})
			slog.Log(ctx, HTTPStatusToLevel(ww.Status()).Slog(), http.StatusText(ww.Status()))
		})
	}
}
