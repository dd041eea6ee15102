// internal/app/features/areas/handler.go
package areas

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
	Ops *ops.AreaOps
	Log *zap.Logger
}

func NewHandler(o *ops.AreaOps, log *zap.Logger) *Handler {
	return &Handler{Ops: o, Log: log}
}

func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	var in ops.CreateAreaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, err := h.Ops.Create(ctx, actor, in)
	if err != nil {
		shared.RespondOpError(w, h.Log, "create area", err)
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
		shared.RespondOpError(w, h.Log, "list areas", err)
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
		shared.RespondOpError(w, h.Log, "get area", err)
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

	var in ops.UpdateAreaInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Ops.Update(ctx, actor, id, in); err != nil {
		shared.RespondOpError(w, h.Log, "update area", err)
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
		shared.RespondOpError(w, h.Log, "set area status", err)
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
		shared.RespondOpError(w, h.Log, "hard delete area", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// ServeDelete deactivates the area. Permanent removal lives at /{id}/hard.
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
		shared.RespondOpError(w, h.Log, "deactivate area", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"active": false})
}
