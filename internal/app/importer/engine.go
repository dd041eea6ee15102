// internal/app/importer/engine.go
package importer

import (
	"context"

	"github.com/campaignkit/fieldhub/internal/app/ops"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Engine checks batches for duplicates and imports them. All reads go
// through the actor's voter scope; the engine never sees rows the actor
// could not see by hand.
type Engine struct {
	core   *ops.Core
	voters *ops.VoterOps
	log    *zap.Logger
}

func New(core *ops.Core, voters *ops.VoterOps, log *zap.Logger) *Engine {
	return &Engine{core: core, voters: voters, log: log}
}

// CheckBatch reports every duplicate in the batch: first the intra-batch
// collisions from one linear pass, then the collisions against stored active
// voters from one batched, scope-filtered lookup.
//
// The two read phases are not transactional against concurrent imports;
// two simultaneous batches can each see a clean store for the same key.
// Findings are advisory and import is never blocked on them.
func (e *Engine) CheckBatch(ctx context.Context, actor models.Actor, rows []Row) ([]Duplicate, error) {
	dups := withinBatch(rows)

	phones, emails := distinctKeys(rows)
	if len(phones) == 0 && len(emails) == 0 {
		return dups, nil
	}

	sc, err := e.core.Scopes.Voters(ctx, actor)
	if err != nil {
		return nil, err
	}
	stored, err := e.core.Voters.FindActiveByKeys(ctx, sc.Filter(), phones, emails)
	if err != nil {
		return nil, err
	}

	// Oldest insert wins per key for deterministic "who imported this first".
	oldest := map[key]int{}
	for i, v := range stored {
		k := key{phone: v.Phone, email: v.Email}
		if k.phone == "" || k.email == "" {
			continue
		}
		j, ok := oldest[k]
		if !ok || v.CreatedAt.Before(stored[j].CreatedAt) {
			oldest[k] = i
		}
	}

	if len(oldest) == 0 {
		return dups, nil
	}

	// One batched lookup of the inserters for the matched voters.
	inserterIDs := make([]primitive.ObjectID, 0, len(oldest))
	seen := map[primitive.ObjectID]struct{}{}
	for _, i := range oldest {
		id := stored[i].InsertedByID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		inserterIDs = append(inserterIDs, id)
	}
	inserters, err := e.core.Users.GetByIDs(ctx, inserterIDs)
	if err != nil {
		return nil, err
	}

	for i, r := range rows {
		k, ok := rowKey(r)
		if !ok {
			continue
		}
		j, ok := oldest[k]
		if !ok {
			continue
		}
		v := stored[j]
		d := Duplicate{
			Kind:         InStore,
			Row:          i + 1,
			VoterID:      v.ID,
			VoterName:    v.FullName,
			InsertedByID: v.InsertedByID,
			InsertedAt:   v.CreatedAt,
		}
		if u, ok := inserters[v.InsertedByID]; ok {
			d.InsertedByName = u.FullName
			d.InsertedByEmail = u.Email
			d.InsertedByRole = string(u.Role)
		}
		dups = append(dups, d)
	}
	return dups, nil
}

// RowResult is the per-row outcome of an import run.
type RowResult struct {
	Row     int                `json:"row"`
	VoterID primitive.ObjectID `json:"voter_id,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// ImportBatch inserts the batch row by row. Each row is its own unit of
// work: a failed row does not stop the rest, and cancellation between rows
// leaves already-committed rows committed. Returns one result per attempted
// row; the second return is how many rows were skipped by cancellation.
func (e *Engine) ImportBatch(ctx context.Context, actor models.Actor, rows []Row) ([]RowResult, int, error) {
	results := make([]RowResult, 0, len(rows))

	for i, r := range rows {
		if err := ctx.Err(); err != nil {
			e.log.Info("import cancelled mid-batch",
				zap.Int("completed", i),
				zap.Int("remaining", len(rows)-i))
			return results, len(rows) - i, err
		}

		v, err := e.voters.CreateImported(ctx, actor, ops.VoterInput{
			FullName: r.FullName,
			Phone:    r.Phone,
			Email:    r.Email,
		})
		if err != nil {
			if opErr, ok := ops.AsError(err); ok {
				results = append(results, RowResult{Row: i + 1, Error: opErr.Message})
				continue
			}
			// Internal fault: stop the run, keep what committed.
			return results, len(rows) - i, err
		}
		results = append(results, RowResult{Row: i + 1, VoterID: v.ID})
	}
	return results, 0, nil
}
