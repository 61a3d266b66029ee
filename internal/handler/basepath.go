package handler

import (
	"net/http"

	"github.com/pavelanni/greeting/internal/model"
)

// BasePathMiddleware makes the configured base path available to views.
func (h *Handler) BasePathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := model.ContextWithBasePath(r.Context(), h.config.BasePath)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// path prefixes p with the base path.
func (h *Handler) path(p string) string {
	return h.config.BasePath + p
}
