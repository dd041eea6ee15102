// internal/app/features/activists/handler.go
package activists

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/campaignkit/fieldhub/internal/app/features/shared"
	"github.com/campaignkit/fieldhub/internal/app/ops"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/respond"
	"github.com/campaignkit/fieldhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Ops *ops.ActivistOps
	Log *zap.Logger
}

func NewHandler(o *ops.ActivistOps, log *zap.Logger) *Handler {
	return &Handler{Ops: o, Log: log}
}

type activistRequest struct {
	FullName       string `json:"full_name"`
	Phone          string `json:"phone"`
	NeighborhoodID string `json:"neighborhood_id"`
	CoordinatorID  string `json:"coordinator_id"`
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	var req activistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}
	nID, ok := shared.PathID(req.NeighborhoodID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid neighborhood id.", "BAD_ID", nil)
		return
	}
	coID, ok := shared.PathID(req.CoordinatorID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid coordinator id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Ops.Create(ctx, actor, ops.CreateActivistInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		NeighborhoodID: nID,
		CoordinatorID:  coID,
	})
	if err != nil {
		shared.RespondOpError(w, h.Log, "create activist", err)
		return
	}
	respond.Data(w, http.StatusCreated, a)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Ops.List(ctx, actor,
		r.URL.Query().Get("include_inactive") == "true",
		paging.FromRequest(r))
	if err != nil {
		shared.RespondOpError(w, h.Log, "list activists", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}

func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.Ops.GetByID(ctx, actor, id)
	if err != nil {
		shared.RespondOpError(w, h.Log, "get activist", err)
		return
	}
	respond.Data(w, http.StatusOK, a)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	var req activistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}
	nID, ok := shared.PathID(req.NeighborhoodID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid neighborhood id.", "BAD_ID", nil)
		return
	}
	coID, ok := shared.PathID(req.CoordinatorID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid coordinator id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.Update(ctx, actor, id, ops.UpdateActivistInput{
		FullName:       req.FullName,
		Phone:          req.Phone,
		NeighborhoodID: nID,
		CoordinatorID:  coID,
	}); err != nil {
		shared.RespondOpError(w, h.Log, "update activist", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"updated": true})
}

func (h *Handler) ServeSetStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	var in struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.SetStatus(ctx, actor, id, in.Active); err != nil {
		shared.RespondOpError(w, h.Log, "set activist status", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"active": in.Active})
}

func (h *Handler) ServeHardDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.HardDelete(ctx, actor, id); err != nil {
		shared.RespondOpError(w, h.Log, "hard delete activist", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// ServeDelete deactivates the activist. Permanent removal lives at /{id}/hard.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.SetStatus(ctx, actor, id, false); err != nil {
		shared.RespondOpError(w, h.Log, "deactivate activist", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"active": false})
}
