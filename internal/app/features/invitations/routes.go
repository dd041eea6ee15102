// internal/app/features/invitations/routes.go
package invitations

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the superadmin invitation endpoints (typically at
// "/invitations"). Redemption is mounted separately; see RedeemRoutes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Delete("/{id}", h.ServeRevoke)

	return r
}

// RedeemRoutes mounts the unauthenticated token-redemption endpoint.
func RedeemRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.ServeRedeem)

	return r
}
