// internal/app/features/cities/routes.go
package cities

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the city endpoints (typically at "/cities").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.ServeUpdate)
	r.Put("/{id}/status", h.ServeSetStatus)
	r.Delete("/{id}", h.ServeDelete)
	r.Delete("/{id}/hard", h.ServeHardDelete)

	return r
}
