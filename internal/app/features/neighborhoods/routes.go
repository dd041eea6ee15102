// internal/app/features/neighborhoods/routes.go
package neighborhoods

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the neighborhood endpoints (typically at "/neighborhoods"),
// including the coordinator assignment sub-resource.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeGet)
	r.Put("/{id}", h.ServeUpdate)
	r.Put("/{id}/status", h.ServeSetStatus)
	r.Delete("/{id}", h.ServeDelete)
	r.Delete("/{id}/hard", h.ServeHardDelete)

	r.Post("/{id}/coordinators", h.ServeAssignCoordinator)
	r.Delete("/{id}/coordinators/{coordinatorID}", h.ServeUnassignCoordinator)

	return r
}
