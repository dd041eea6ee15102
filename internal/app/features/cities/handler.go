// internal/app/features/cities/handler.go
package cities

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
	Ops *ops.CityOps
	Log *zap.Logger
}

func NewHandler(o *ops.CityOps, log *zap.Logger) *Handler {
	return &Handler{Ops: o, Log: log}
}

type createRequest struct {
	Name   string `json:"name"`
	AreaID string `json:"area_id"`
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}
	areaID, ok := shared.PathID(req.AreaID)
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid area id.", "BAD_ID", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Ops.Create(ctx, actor, ops.CreateCityInput{Name: req.Name, AreaID: areaID})
	if err != nil {
		shared.RespondOpError(w, h.Log, "create city", err)
		return
	}
	respond.Data(w, http.StatusCreated, c)
}

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Ops.List(ctx, actor,
		r.URL.Query().Get("include_inactive") == "true",
		paging.FromRequest(r))
	if err != nil {
		shared.RespondOpError(w, h.Log, "list cities", err)
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

	c, err := h.Ops.GetByID(ctx, actor, id)
	if err != nil {
		shared.RespondOpError(w, h.Log, "get city", err)
		return
	}
	respond.Data(w, http.StatusOK, c)
}

func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)
	id, ok := shared.PathID(chi.URLParam(r, "id"))
	if !ok {
		respond.Err(w, http.StatusBadRequest, "Invalid id.", "BAD_ID", nil)
		return
	}

	var in ops.UpdateCityInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.Update(ctx, actor, id, in); err != nil {
		shared.RespondOpError(w, h.Log, "update city", err)
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
		shared.RespondOpError(w, h.Log, "set city status", err)
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
		shared.RespondOpError(w, h.Log, "hard delete city", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// ServeDelete deactivates the city. Permanent removal lives at /{id}/hard.
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
		shared.RespondOpError(w, h.Log, "deactivate city", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"active": false})
}
