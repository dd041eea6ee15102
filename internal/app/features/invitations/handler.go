// internal/app/features/invitations/handler.go
package invitations

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campaignkit/fieldhub/internal/app/features/shared"
	"github.com/campaignkit/fieldhub/internal/app/ops"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/respond"
	"github.com/campaignkit/fieldhub/internal/app/system/timeouts"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Ops *ops.InvitationOps
	Log *zap.Logger
}

func NewHandler(o *ops.InvitationOps, log *zap.Logger) *Handler {
	return &Handler{Ops: o, Log: log}
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	var req struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, rawToken, err := h.Ops.Create(ctx, actor, ops.CreateInvitationInput{
		Email: req.Email,
		Role:  models.Role(req.Role),
	})
	if err != nil {
		shared.RespondOpError(w, h.Log, "create invitation", err)
		return
	}
	// The raw token is only available here; it is never stored.
	respond.Data(w, http.StatusCreated, map[string]interface{}{
		"invitation": inv,
		"token":      rawToken,
	})
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Ops.List(ctx, actor,
		r.URL.Query().Get("status"),
		paging.FromRequest(r))
	if err != nil {
		shared.RespondOpError(w, h.Log, "list invitations", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) ServeRevoke(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.Revoke(ctx, actor, id); err != nil {
		shared.RespondOpError(w, h.Log, "revoke invitation", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"revoked": true})
}

// ServeRedeem accepts an invitation token. It is mounted outside the
// authenticated router because the redeemer has no account yet.
func (h *Handler) ServeRedeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Ops.Redeem(ctx, req.Token)
	if err != nil {
		shared.RespondOpError(w, h.Log, "redeem invitation", err)
		return
	}
	respond.Data(w, http.StatusOK, inv)
}
