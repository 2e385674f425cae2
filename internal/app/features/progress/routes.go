// internal/app/features/progress/routes.go
package progress

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Upsert)
	r.Post("/toggle", h.Toggle)
	return r
}
