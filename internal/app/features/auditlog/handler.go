// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/features/shared"
	"github.com/campaignkit/fieldhub/internal/app/ops"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/system/respond"
	"github.com/campaignkit/fieldhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Handler struct {
	Ops *ops.AuditOps
	Log *zap.Logger
}

func NewHandler(o *ops.AuditOps, log *zap.Logger) *Handler {
	return &Handler{Ops: o, Log: log}
}

// ServeList queries the audit trail. Filters arrive as query parameters:
// actor_id, action, entity_type, entity_id, start, end (RFC 3339),
// limit, offset.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	filter, err := filterFromQuery(r)
	if err != nil {
		respond.Err(w, http.StatusBadRequest, err.Error(), "BAD_FILTER", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	entries, total, err := h.Ops.Query(ctx, actor, filter)
	if err != nil {
		shared.RespondOpError(w, h.Log, "query audit trail", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{"items": entries, "total": total})
}

func filterFromQuery(r *http.Request) (audit.QueryFilter, error) {
	q := r.URL.Query()
	f := audit.QueryFilter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
	}

	if raw := q.Get("actor_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return f, errBadFilter("actor_id")
		}
		f.ActorID = &id
	}
	if raw := q.Get("entity_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return f, errBadFilter("entity_id")
		}
		f.EntityID = &id
	}
	if raw := q.Get("start"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, errBadFilter("start")
		}
		f.Start = &t
	}
	if raw := q.Get("end"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, errBadFilter("end")
		}
		f.End = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return f, errBadFilter("limit")
		}
		f.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return f, errBadFilter("offset")
		}
		f.Offset = n
	}
	return f, nil
}

type errBadFilter string

func (e errBadFilter) Error() string { return "Invalid value for " + string(e) + "." }
