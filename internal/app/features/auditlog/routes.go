// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit trail endpoints (typically at "/audit").
// Authorization is enforced in the operation layer: only superadmins
// may query the trail.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)

	return r
}
