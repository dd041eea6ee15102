// internal/app/features/coordinators/handler.go
package coordinators

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
	Ops *ops.CoordinatorOps
	Log *zap.Logger
}

func NewHandler(o *ops.CoordinatorOps, log *zap.Logger) *Handler {
	return &Handler{Ops: o, Log: log}
}

type createRequest struct {
	UserID string `json:"user_id"`
	CityID string `json:"city_id"`
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}
	userID, ok := shared.PathID(req.UserID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid user id.", "BAD_ID", nil)
		return
	}
	cityID, ok := shared.PathID(req.CityID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid city id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	co, err := h.Ops.Create(ctx, actor, ops.CreateCoordinatorInput{UserID: userID, CityID: cityID})
	if err != nil {
		shared.RespondOpError(w, h.Log, "create coordinator", err)
		return
	}
	respond.Data(w, http.StatusCreated, co)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Ops.List(ctx, actor,
		r.URL.Query().Get("include_inactive") == "true",
		paging.FromRequest(r))
	if err != nil {
		shared.RespondOpError(w, h.Log, "list coordinators", err)
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

	co, err := h.Ops.GetByID(ctx, actor, id)
	if err != nil {
		shared.RespondOpError(w, h.Log, "get coordinator", err)
		return
	}
	respond.Data(w, http.StatusOK, co)
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
		shared.RespondOpError(w, h.Log, "set coordinator status", err)
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
		shared.RespondOpError(w, h.Log, "hard delete coordinator", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// ServeDelete deactivates the coordinator. Permanent removal lives at /{id}/hard.
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
		shared.RespondOpError(w, h.Log, "deactivate coordinator", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"active": false})
}
