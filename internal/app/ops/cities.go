// internal/app/ops/cities.go
package ops

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/store/cities"
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

type CityOps struct {
	*Core
}

func NewCityOps(c *Core) *CityOps { return &CityOps{Core: c} }

type CreateCityInput struct {
	Name   string `label:"name" validate:"required,max=120"`
	AreaID primitive.ObjectID
}

func (o *CityOps) Create(ctx context.Context, actor models.Actor, in CreateCityInput) (models.City, error) {
	if res := inputval.Validate(in); res.HasErrors() {
		return models.City{}, Validationf("%s", res.First())
	}
	if in.AreaID.IsZero() {
		return models.City{}, Validationf("area is required")
	}
	if !access.CanCreate(actor, access.KindCity) {
		return models.City{}, DeniedErr("your role cannot create cities")
	}

	// The parent area must be visible to the actor and active.
	areaScope, err := o.Scopes.Areas(ctx, actor)
	if err != nil {
		return models.City{}, err
	}
	if access.Read(actor, areaScope, in.AreaID) != access.Allow {
		return models.City{}, NotFoundErr("area")
	}
	parent, err := o.Areas.GetByID(ctx, in.AreaID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.City{}, NotFoundErr("area")
		}
		return models.City{}, err
	}
	if parent.Status != status.Active {
		return models.City{}, IntegrityErr("area is inactive")
	}

	var created models.City
	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		c, err := o.Cities.Create(ctx, models.City{Name: in.Name, AreaID: in.AreaID})
		if err != nil {
			return err
		}
		created = c
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionCreateCity, audit.EntityCity, c.ID,
			nil, bson.M{"name": c.Name, "area_id": c.AreaID.Hex(), "status": c.Status}))
	})
	if err != nil {
		if errors.Is(err, citystore.ErrDuplicateName) {
			return models.City{}, ConflictErr(CodeDuplicateName, "a city with this name already exists in the area", nil)
		}
		return models.City{}, err
	}

	o.invalidate(audit.EntityCity, created.ID)
	return created, nil
}

func (o *CityOps) List(ctx context.Context, actor models.Actor, includeInactive bool, page paging.Page) ([]models.City, int64, error) {
	sc, err := o.Scopes.Cities(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return o.Cities.List(ctx, sc.Filter(), includeInactive, page)
}

func (o *CityOps) GetByID(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.City, error) {
	sc, err := o.Scopes.Cities(ctx, actor)
	if err != nil {
		return nil, err
	}
	if access.Read(actor, sc, id) != access.Allow {
		return nil, NotFoundErr("city")
	}
	c, err := o.Cities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("city")
		}
		return nil, err
	}
	return c, nil
}

type UpdateCityInput struct {
	Name string `label:"name" validate:"required,max=120"`
}

func (o *CityOps) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in UpdateCityInput) error {
	if res := inputval.Validate(in); res.HasErrors() {
		return Validationf("%s", res.First())
	}

	sc, err := o.Scopes.Cities(ctx, actor)
	if err != nil {
		return err
	}
	switch access.Mutate(actor, access.KindCity, sc, id) {
	case access.NotFound:
		return NotFoundErr("city")
	case access.Denied:
		return DeniedErr("your role cannot modify cities")
	}

	before, err := o.Cities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("city")
		}
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Cities.UpdateName(ctx, id, in.Name); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionUpdateCity, audit.EntityCity, id,
			bson.M{"name": before.Name}, bson.M{"name": in.Name}))
	})
	if err != nil {
		if errors.Is(err, citystore.ErrDuplicateName) {
			return ConflictErr(CodeDuplicateName, "a city with this name already exists in the area", nil)
		}
		return err
	}

	o.invalidate(audit.EntityCity, id)
	return nil
}

// SetStatus activates or deactivates a city. Deactivation is blocked while
// the city still has active neighborhoods.
func (o *CityOps) SetStatus(ctx context.Context, actor models.Actor, id primitive.ObjectID, active bool) error {
	sc, err := o.Scopes.Cities(ctx, actor)
	if err != nil {
		return err
	}
	switch access.Mutate(actor, access.KindCity, sc, id) {
	case access.NotFound:
		return NotFoundErr("city")
	case access.Denied:
		return DeniedErr("your role cannot modify cities")
	}

	before, err := o.Cities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("city")
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
		n, err := o.Neighborhoods.CountActiveByCity(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ConflictErr(CodeNeighborhoodsExist,
				"city still has active neighborhoods",
				map[string]interface{}{"neighborhoodCount": n})
		}
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Cities.SetStatus(ctx, id, next); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionToggleCity, audit.EntityCity, id,
			bson.M{"status": before.Status}, bson.M{"status": next}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityCity, id)
	return nil
}

// HardDelete removes a city and everything under it.
func (o *CityOps) HardDelete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !access.CanHardDelete(actor) {
		return DeniedErr("only a superadmin can permanently delete a city")
	}

	before, err := o.Cities.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("city")
		}
		return err
	}

	cityIDs := []primitive.ObjectID{id}
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
		if err := o.Cities.HardDelete(ctx, id); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionHardDeleteCity, audit.EntityCity, id,
			bson.M{
				"name":              before.Name,
				"status":            before.Status,
				"neighborhoodCount": neighborhoodCount,
				"activistCount":     activistCount,
				"coordinatorCount":  coordinatorCount,
			}, nil))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityCity, id)
	return nil
}
