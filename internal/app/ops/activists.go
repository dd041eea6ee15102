// internal/app/ops/activists.go
package ops

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/activists"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/system/auditlog"
	"github.com/campaignkit/fieldhub/internal/app/system/inputval"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/status"
	"github.com/campaignkit/fieldhub/internal/app/system/txn"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ActivistOps struct {
	*Core
}

func NewActivistOps(c *Core) *ActivistOps { return &ActivistOps{Core: c} }

type CreateActivistInput struct {
	FullName       string `label:"full name" validate:"required,max=160"`
	Phone          string `label:"phone" validate:"max=32"`
	NeighborhoodID primitive.ObjectID
	CoordinatorID  primitive.ObjectID
}

func (o *ActivistOps) Create(ctx context.Context, actor models.Actor, in CreateActivistInput) (models.Activist, error) {
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Activist{}, Validationf("%s", res.First())
	}
	if in.NeighborhoodID.IsZero() {
		return models.Activist{}, Validationf("neighborhood is required")
	}
	if in.CoordinatorID.IsZero() {
		return models.Activist{}, Validationf("coordinator is required")
	}
	if !access.CanCreate(actor, access.KindActivist) {
		return models.Activist{}, DeniedErr("your role cannot create activists")
	}

	nScope, err := o.Scopes.Neighborhoods(ctx, actor)
	if err != nil {
		return models.Activist{}, err
	}
	if access.Read(actor, nScope, in.NeighborhoodID) != access.Allow {
		return models.Activist{}, NotFoundErr("neighborhood")
	}
	n, err := o.Neighborhoods.GetByID(ctx, in.NeighborhoodID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Activist{}, NotFoundErr("neighborhood")
		}
		return models.Activist{}, err
	}
	if n.Status != status.Active {
		return models.Activist{}, IntegrityErr("neighborhood is inactive")
	}

	// The supervising coordinator must actually cover the neighborhood.
	assigned, err := o.Assignments.Exists(ctx, in.CoordinatorID, in.NeighborhoodID)
	if err != nil {
		return models.Activist{}, err
	}
	if !assigned {
		return models.Activist{}, IntegrityErr("coordinator is not assigned to this neighborhood")
	}

	var created models.Activist
	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		a, err := o.Activists.Create(ctx, models.Activist{
			FullName:       in.FullName,
			Phone:          in.Phone,
			NeighborhoodID: in.NeighborhoodID,
			CoordinatorID:  in.CoordinatorID,
		})
		if err != nil {
			return err
		}
		created = a
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionCreateActivist, audit.EntityActivist, a.ID,
			nil, bson.M{
				"full_name":       a.FullName,
				"neighborhood_id": a.NeighborhoodID.Hex(),
				"coordinator_id":  a.CoordinatorID.Hex(),
				"status":          a.Status,
			}))
	})
	if err != nil {
		return models.Activist{}, err
	}

	o.invalidate(audit.EntityActivist, created.ID)
	return created, nil
}

func (o *ActivistOps) List(ctx context.Context, actor models.Actor, includeInactive bool, page paging.Page) ([]models.Activist, int64, error) {
	sc, err := o.Scopes.Activists(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return o.Activists.List(ctx, sc.Filter(), includeInactive, page)
}

func (o *ActivistOps) GetByID(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Activist, error) {
	a, err := o.Activists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("activist")
		}
		return nil, err
	}
	sc, err := o.Scopes.Activists(ctx, actor)
	if err != nil {
		return nil, err
	}
	if access.Read(actor, sc, a.NeighborhoodID) != access.Allow {
		return nil, NotFoundErr("activist")
	}
	return a, nil
}

type UpdateActivistInput struct {
	FullName       string `label:"full name" validate:"required,max=160"`
	Phone          string `label:"phone" validate:"max=32"`
	NeighborhoodID primitive.ObjectID
	CoordinatorID  primitive.ObjectID
}

func (o *ActivistOps) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in UpdateActivistInput) error {
	if res := inputval.Validate(in); res.HasErrors() {
		return Validationf("%s", res.First())
	}
	if in.NeighborhoodID.IsZero() || in.CoordinatorID.IsZero() {
		return Validationf("neighborhood and coordinator are required")
	}

	before, err := o.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}
	if !access.CanCreate(actor, access.KindActivist) {
		return DeniedErr("your role cannot modify activists")
	}

	// Moving the activist requires visibility of the target neighborhood
	// and a coordinator that covers it.
	sc, err := o.Scopes.Neighborhoods(ctx, actor)
	if err != nil {
		return err
	}
	if access.Read(actor, sc, in.NeighborhoodID) != access.Allow {
		return NotFoundErr("neighborhood")
	}
	assigned, err := o.Assignments.Exists(ctx, in.CoordinatorID, in.NeighborhoodID)
	if err != nil {
		return err
	}
	if !assigned {
		return IntegrityErr("coordinator is not assigned to this neighborhood")
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Activists.UpdateFields(ctx, id, activiststore.Update{
			FullName:       in.FullName,
			Phone:          in.Phone,
			NeighborhoodID: in.NeighborhoodID,
			CoordinatorID:  in.CoordinatorID,
		}); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionUpdateActivist, audit.EntityActivist, id,
			bson.M{
				"full_name":       before.FullName,
				"neighborhood_id": before.NeighborhoodID.Hex(),
				"coordinator_id":  before.CoordinatorID.Hex(),
			},
			bson.M{
				"full_name":       in.FullName,
				"neighborhood_id": in.NeighborhoodID.Hex(),
				"coordinator_id":  in.CoordinatorID.Hex(),
			}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityActivist, id)
	return nil
}

// SetStatus activates or deactivates an activist. Activists have no
// dependents, so no guard applies.
func (o *ActivistOps) SetStatus(ctx context.Context, actor models.Actor, id primitive.ObjectID, active bool) error {
	before, err := o.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}
	if !access.CanCreate(actor, access.KindActivist) {
		return DeniedErr("your role cannot modify activists")
	}

	next := status.Inactive
	if active {
		next = status.Active
	}
	if before.Status == next {
		return nil
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Activists.SetStatus(ctx, id, next); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionToggleActivist, audit.EntityActivist, id,
			bson.M{"status": before.Status}, bson.M{"status": next}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityActivist, id)
	return nil
}

// HardDelete removes an activist row permanently.
func (o *ActivistOps) HardDelete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !access.CanHardDelete(actor) {
		return DeniedErr("only a superadmin can permanently delete an activist")
	}

	before, err := o.Activists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("activist")
		}
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Activists.HardDelete(ctx, id); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionHardDeleteActivist, audit.EntityActivist, id,
			bson.M{
				"full_name":       before.FullName,
				"neighborhood_id": before.NeighborhoodID.Hex(),
				"status":          before.Status,
			}, nil))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityActivist, id)
	return nil
}
