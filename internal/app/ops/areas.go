// internal/app/ops/areas.go
package ops

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/areas"
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

// AreaOps is the mutation pipeline for areas, the hierarchy's top level.
type AreaOps struct {
	*Core
}

func NewAreaOps(c *Core) *AreaOps { return &AreaOps{Core: c} }

type CreateAreaInput struct {
	Name string `label:"name" validate:"required,max=120"`
}

func (o *AreaOps) Create(ctx context.Context, actor models.Actor, in CreateAreaInput) (models.Area, error) {
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Area{}, Validationf("%s", res.First())
	}
	if !access.CanCreate(actor, access.KindArea) {
		return models.Area{}, DeniedErr("your role cannot create areas")
	}

	var created models.Area
	err := txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		a, err := o.Areas.Create(ctx, models.Area{Name: in.Name})
		if err != nil {
			return err
		}
		created = a
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionCreateArea, audit.EntityArea, a.ID,
			nil, bson.M{"name": a.Name, "status": a.Status}))
	})
	if err != nil {
		if errors.Is(err, areastore.ErrDuplicateName) {
			return models.Area{}, ConflictErr(CodeDuplicateName, "an area with this name already exists", nil)
		}
		return models.Area{}, err
	}

	o.invalidate(audit.EntityArea, created.ID)
	return created, nil
}

func (o *AreaOps) List(ctx context.Context, actor models.Actor, includeInactive bool, page paging.Page) ([]models.Area, int64, error) {
	sc, err := o.Scopes.Areas(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return o.Areas.List(ctx, sc.Filter(), includeInactive, page)
}

func (o *AreaOps) GetByID(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Area, error) {
	sc, err := o.Scopes.Areas(ctx, actor)
	if err != nil {
		return nil, err
	}
	if access.Read(actor, sc, id) != access.Allow {
		return nil, NotFoundErr("area")
	}
	a, err := o.Areas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("area")
		}
		return nil, err
	}
	return a, nil
}

type UpdateAreaInput struct {
	Name string `label:"name" validate:"required,max=120"`
}

func (o *AreaOps) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in UpdateAreaInput) error {
	if res := inputval.Validate(in); res.HasErrors() {
		return Validationf("%s", res.First())
	}

	sc, err := o.Scopes.Areas(ctx, actor)
	if err != nil {
		return err
	}
	switch access.Mutate(actor, access.KindArea, sc, id) {
	case access.NotFound:
		return NotFoundErr("area")
	case access.Denied:
		return DeniedErr("your role cannot modify areas")
	}

	before, err := o.Areas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("area")
		}
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Areas.UpdateName(ctx, id, in.Name); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionUpdateArea, audit.EntityArea, id,
			bson.M{"name": before.Name}, bson.M{"name": in.Name}))
	})
	if err != nil {
		if errors.Is(err, areastore.ErrDuplicateName) {
			return ConflictErr(CodeDuplicateName, "an area with this name already exists", nil)
		}
		return err
	}

	o.invalidate(audit.EntityArea, id)
	return nil
}

// SetStatus activates or deactivates an area. Deactivation is the soft
// delete: it is blocked while the area still has active cities.
func (o *AreaOps) SetStatus(ctx context.Context, actor models.Actor, id primitive.ObjectID, active bool) error {
	sc, err := o.Scopes.Areas(ctx, actor)
	if err != nil {
		return err
	}
	switch access.Mutate(actor, access.KindArea, sc, id) {
	case access.NotFound:
		return NotFoundErr("area")
	case access.Denied:
		return DeniedErr("your role cannot modify areas")
	}

	before, err := o.Areas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("area")
		}
		return err
	}

	next := status.Inactive
	if active {
		next = status.Active
	}
	if before.Status == next {
		return nil
	}

	if !active {
		n, err := o.Cities.CountActiveByArea(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ConflictErr(CodeCitiesExist,
				"area still has active cities",
				map[string]interface{}{"cityCount": n})
		}
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Areas.SetStatus(ctx, id, next); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionToggleArea, audit.EntityArea, id,
			bson.M{"status": before.Status}, bson.M{"status": next}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityArea, id)
	return nil
}

// HardDelete removes an area and everything under it: cities, neighborhoods,
// activists, coordinator records and their assignments. The audit entry keeps
// the pre-delete dependent counts since the rows are unrecoverable.
func (o *AreaOps) HardDelete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !access.CanHardDelete(actor) {
		return DeniedErr("only a superadmin can permanently delete an area")
	}

	before, err := o.Areas.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("area")
		}
		return err
	}

	cityIDs, err := o.Cities.IDsByArea(ctx, id)
	if err != nil {
		return err
	}
	neighborhoodIDs, err := o.Neighborhoods.IDsByCities(ctx, cityIDs)
	if err != nil {
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		activistCount, err := o.Activists.HardDeleteByNeighborhoods(ctx, neighborhoodIDs)
		if err != nil {
			return err
		}
		if _, err := o.Assignments.DeleteByNeighborhoods(ctx, neighborhoodIDs); err != nil {
			return err
		}
		coordinatorCount, err := o.Coordinators.HardDeleteByCities(ctx, cityIDs)
		if err != nil {
			return err
		}
		neighborhoodCount, err := o.Neighborhoods.HardDeleteByCities(ctx, cityIDs)
		if err != nil {
			return err
		}
		cityCount, err := o.Cities.HardDeleteByArea(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Areas.HardDelete(ctx, id); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionHardDeleteArea, audit.EntityArea, id,
			bson.M{
				"name":              before.Name,
				"status":            before.Status,
				"cityCount":         cityCount,
				"neighborhoodCount": neighborhoodCount,
				"activistCount":     activistCount,
				"coordinatorCount":  coordinatorCount,
			}, nil))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityArea, id)
	return nil
}
