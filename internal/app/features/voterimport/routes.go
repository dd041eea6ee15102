// internal/app/features/voterimport/routes.go
package voterimport

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the bulk import endpoints (typically at "/import").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/check", h.ServeCheck)
	r.Post("/run", h.ServeRun)

	return r
}
