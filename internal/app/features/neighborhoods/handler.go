// internal/app/features/neighborhoods/handler.go
package neighborhoods

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
	Ops *ops.NeighborhoodOps
	Log *zap.Logger
}

func NewHandler(o *ops.NeighborhoodOps, log *zap.Logger) *Handler {
	return &Handler{Ops: o, Log: log}
}

type createRequest struct {
	Name   string `json:"name"`
	CityID string `json:"city_id"`
	// CoordinatorID, when present, assigns the coordinator in the same
	// transaction that creates the neighborhood.
	CoordinatorID string `json:"coordinator_id,omitempty"`
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}
	cityID, ok := shared.PathID(req.CityID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid city id.", "BAD_ID", nil)
		return
	}
	in := ops.CreateNeighborhoodInput{Name: req.Name, CityID: cityID}
	if req.CoordinatorID != "" {
		coID, ok := shared.PathID(req.CoordinatorID)
		if !ok {
			respond.Err(w, http.StatusBadRequest, "Invalid coordinator id.", "BAD_ID", nil)
			return
		}
		in.CoordinatorID = &coID
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	n, err := h.Ops.Create(ctx, actor, in)
	if err != nil {
		shared.RespondOpError(w, h.Log, "create neighborhood", err)
		return
	}
	respond.Data(w, http.StatusCreated, n)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Ops.List(ctx, actor,
		r.URL.Query().Get("include_inactive") == "true",
		paging.FromRequest(r))
	if err != nil {
		shared.RespondOpError(w, h.Log, "list neighborhoods", err)
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

	n, err := h.Ops.GetByID(ctx, actor, id)
	if err != nil {
		shared.RespondOpError(w, h.Log, "get neighborhood", err)
		return
	}
	respond.Data(w, http.StatusOK, n)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	var in ops.UpdateNeighborhoodInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.Update(ctx, actor, id, in); err != nil {
		shared.RespondOpError(w, h.Log, "update neighborhood", err)
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
		shared.RespondOpError(w, h.Log, "set neighborhood status", err)
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Ops.HardDelete(ctx, actor, id); err != nil {
		shared.RespondOpError(w, h.Log, "hard delete neighborhood", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

func (h *Handler) ServeAssignCoordinator(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	var req struct {
		CoordinatorID string `json:"coordinator_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}
	coID, ok := shared.PathID(req.CoordinatorID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid coordinator id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.AssignCoordinator(ctx, actor, id, coID); err != nil {
		shared.RespondOpError(w, h.Log, "assign coordinator", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"assigned": true})
}

func (h *Handler) ServeUnassignCoordinator(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}
	coID, ok := shared.PathID(chi.URLParam(r, "coordinatorID"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid coordinator id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.UnassignCoordinator(ctx, actor, id, coID); err != nil {
		shared.RespondOpError(w, h.Log, "unassign coordinator", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"unassigned": true})
}

// ServeDelete deactivates the neighborhood. Permanent removal lives at /{id}/hard.
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
		shared.RespondOpError(w, h.Log, "deactivate neighborhood", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"active": false})
}
