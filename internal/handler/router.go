package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	appI18n "github.com/pavelanni/greeting/internal/i18n"
)

// NewRouter wires the middleware stack and mounts the routes, under the base
// path when one is configured.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(h.cookiePath()))

	basePath := h.config.BasePath
	if basePath != "" {
		r.Route(basePath, func(sub chi.Router) {
			sub.Use(h.BasePathMiddleware)
			h.Routes(sub)
		})
		r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
		})
	} else {
		r.Use(h.BasePathMiddleware)
		h.Routes(r)
	}
	return r
}
