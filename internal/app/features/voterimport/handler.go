// internal/app/features/voterimport/handler.go
package voterimport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campaignkit/fieldhub/internal/app/features/shared"
	"github.com/campaignkit/fieldhub/internal/app/importer"
	"github.com/campaignkit/fieldhub/internal/app/system/respond"
	"github.com/campaignkit/fieldhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// maxBatchRows caps a single import request. Larger files should be split
// client-side; the row loop commits each row separately, so there is no
// transactional reason to allow unbounded batches.
const maxBatchRows = 5000

type Handler struct {
	Engine *importer.Engine
	Log    *zap.Logger
}

func NewHandler(e *importer.Engine, log *zap.Logger) *Handler {
	return &Handler{Engine: e, Log: log}
}

type batchRequest struct {
	Rows []importer.Row `json:"rows"`
}

func decodeBatch(w http.ResponseWriter, r *http.Request) ([]importer.Row, bool) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Err(w, http.StatusBadRequest, "Request body is not valid JSON.", "BAD_JSON", nil)
		return nil, false
	}
	if len(req.Rows) == 0 {
		respond.Err(w, http.StatusBadRequest, "The batch has no rows.", "EMPTY_BATCH", nil)
		return nil, false
	}
	if len(req.Rows) > maxBatchRows {
		respond.Err(w, http.StatusBadRequest, "The batch is too large.", "BATCH_TOO_LARGE",
			map[string]interface{}{"max_rows": maxBatchRows})
		return nil, false
	}
	return req.Rows, true
}

// ServeCheck runs duplicate detection over the batch without inserting
// anything.
func (h *Handler) ServeCheck(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	rows, ok := decodeBatch(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	dups, err := h.Engine.CheckBatch(ctx, actor, rows)
	if err != nil {
		shared.RespondOpError(w, h.Log, "check import batch", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{
		"rows":       len(rows),
		"duplicates": dups,
	})
}

// ServeRun inserts the batch. Rows that fail validation are reported in
// their result entry; the rest of the batch still commits.
func (h *Handler) ServeRun(w http.ResponseWriter, r *http.Request) {
	actor, _ := shared.CurrentActor(r)

	rows, ok := decodeBatch(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	results, skipped, err := h.Engine.ImportBatch(ctx, actor, rows)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		shared.RespondOpError(w, h.Log, "run import batch", err)
		return
	}
	respond.Data(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"skipped": skipped,
	})
}
