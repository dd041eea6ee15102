// internal/app/features/health/routes.go
package health

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the health endpoint (typically at "/health"). It is
// deliberately unauthenticated so load balancers can probe it.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Serve)

	return r
}
