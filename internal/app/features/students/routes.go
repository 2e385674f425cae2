package students

import (
	"github.com/dalemusser/stagetrack/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the student catalog. importLimit throttles bulk imports per
// client; nil disables it.
func Routes(h *Handler, importLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.With(importLimit.Middleware).Post("/import", h.Import)
	r.Get("/by-username/{username}", h.ByUsername)
	r.Delete("/{id}", h.Delete)
	return r
}
