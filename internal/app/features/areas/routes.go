// internal/app/features/areas/routes.go
package areas

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the area endpoints under the path where this router is
// mounted (typically "/areas" from bootstrap). Identity and actor middleware
// are applied by the caller.
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
