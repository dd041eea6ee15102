// internal/app/ops/neighborhoods.go
package ops

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/store/neighborhoods"
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

type NeighborhoodOps struct {
	*Core
}

func NewNeighborhoodOps(c *Core) *NeighborhoodOps { return &NeighborhoodOps{Core: c} }

type CreateNeighborhoodInput struct {
	Name   string `label:"name" validate:"required,max=120"`
	CityID primitive.ObjectID
	// CoordinatorID, when set, creates the initial coordinator assignment in
	// the same transaction as the neighborhood itself.
	CoordinatorID *primitive.ObjectID
}

func (o *NeighborhoodOps) Create(ctx context.Context, actor models.Actor, in CreateNeighborhoodInput) (models.Neighborhood, error) {
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Neighborhood{}, Validationf("%s", res.First())
	}
	if in.CityID.IsZero() {
		return models.Neighborhood{}, Validationf("city is required")
	}
	if !access.CanCreate(actor, access.KindNeighborhood) {
		return models.Neighborhood{}, DeniedErr("your role cannot create neighborhoods")
	}

	cityScope, err := o.Scopes.Cities(ctx, actor)
	if err != nil {
		return models.Neighborhood{}, err
	}
	if access.Read(actor, cityScope, in.CityID) != access.Allow {
		return models.Neighborhood{}, NotFoundErr("city")
	}
	parent, err := o.Cities.GetByID(ctx, in.CityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Neighborhood{}, NotFoundErr("city")
		}
		return models.Neighborhood{}, err
	}
	if parent.Status != status.Active {
		return models.Neighborhood{}, IntegrityErr("city is inactive")
	}

	// Validate the initial coordinator before opening the transaction.
	var initialCoordinator *models.Coordinator
	if in.CoordinatorID != nil {
		co, err := o.visibleActiveCoordinator(ctx, actor, *in.CoordinatorID)
		if err != nil {
			return models.Neighborhood{}, err
		}
		if co.CityID != in.CityID {
			return models.Neighborhood{}, IntegrityErr("coordinator belongs to a different city")
		}
		initialCoordinator = co
	}

	var created models.Neighborhood
	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		n, err := o.Neighborhoods.Create(ctx, models.Neighborhood{Name: in.Name, CityID: in.CityID})
		if err != nil {
			return err
		}
		created = n

		after := bson.M{"name": n.Name, "city_id": n.CityID.Hex(), "status": n.Status}
		if initialCoordinator != nil {
			if _, err := o.Assignments.Create(ctx, models.CoordinatorAssignment{
				CoordinatorID:  initialCoordinator.ID,
				NeighborhoodID: n.ID,
				AssignedByID:   actor.ID,
			}); err != nil {
				return err
			}
			after["coordinator_id"] = initialCoordinator.ID.Hex()
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionCreateNeighborhood, audit.EntityNeighborhood, n.ID,
			nil, after))
	})
	if err != nil {
		if errors.Is(err, neighborhoodstore.ErrDuplicateName) {
			return models.Neighborhood{}, ConflictErr(CodeDuplicateName, "a neighborhood with this name already exists in the city", nil)
		}
		return models.Neighborhood{}, err
	}

	o.invalidate(audit.EntityNeighborhood, created.ID)
	return created, nil
}

func (o *NeighborhoodOps) List(ctx context.Context, actor models.Actor, includeInactive bool, page paging.Page) ([]models.Neighborhood, int64, error) {
	sc, err := o.Scopes.Neighborhoods(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return o.Neighborhoods.List(ctx, sc.Filter(), includeInactive, page)
}

func (o *NeighborhoodOps) GetByID(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Neighborhood, error) {
	sc, err := o.Scopes.Neighborhoods(ctx, actor)
	if err != nil {
		return nil, err
	}
	if access.Read(actor, sc, id) != access.Allow {
		return nil, NotFoundErr("neighborhood")
	}
	n, err := o.Neighborhoods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("neighborhood")
		}
		return nil, err
	}
	return n, nil
}

type UpdateNeighborhoodInput struct {
	Name string `label:"name" validate:"required,max=120"`
}

func (o *NeighborhoodOps) Update(ctx context.Context, actor models.Actor, id primitive.ObjectID, in UpdateNeighborhoodInput) error {
	if res := inputval.Validate(in); res.HasErrors() {
		return Validationf("%s", res.First())
	}

	sc, err := o.Scopes.Neighborhoods(ctx, actor)
	if err != nil {
		return err
	}
	switch access.Mutate(actor, access.KindNeighborhood, sc, id) {
	case access.NotFound:
		return NotFoundErr("neighborhood")
	case access.Denied:
		return DeniedErr("your role cannot modify neighborhoods")
	}

	before, err := o.Neighborhoods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("neighborhood")
		}
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Neighborhoods.UpdateName(ctx, id, in.Name); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionUpdateNeighborhood, audit.EntityNeighborhood, id,
			bson.M{"name": before.Name}, bson.M{"name": in.Name}))
	})
	if err != nil {
		if errors.Is(err, neighborhoodstore.ErrDuplicateName) {
			return ConflictErr(CodeDuplicateName, "a neighborhood with this name already exists in the city", nil)
		}
		return err
	}

	o.invalidate(audit.EntityNeighborhood, id)
	return nil
}

// SetStatus activates or deactivates a neighborhood. Deactivation is blocked
// while the neighborhood still has active activists; the conflict carries the
// exact live count.
func (o *NeighborhoodOps) SetStatus(ctx context.Context, actor models.Actor, id primitive.ObjectID, active bool) error {
	sc, err := o.Scopes.Neighborhoods(ctx, actor)
	if err != nil {
		return err
	}
	switch access.Mutate(actor, access.KindNeighborhood, sc, id) {
	case access.NotFound:
		return NotFoundErr("neighborhood")
	case access.Denied:
		return DeniedErr("your role cannot modify neighborhoods")
	}

	before, err := o.Neighborhoods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("neighborhood")
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
		n, err := o.Activists.CountActiveByNeighborhood(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ConflictErr(CodeActivistsExist,
				"neighborhood still has active activists",
				map[string]interface{}{"activistCount": n})
		}
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Neighborhoods.SetStatus(ctx, id, next); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionToggleNeighborhood, audit.EntityNeighborhood, id,
			bson.M{"status": before.Status}, bson.M{"status": next}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityNeighborhood, id)
	return nil
}

// HardDelete removes a neighborhood, its activists, and its coordinator
// assignments.
func (o *NeighborhoodOps) HardDelete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !access.CanHardDelete(actor) {
		return DeniedErr("only a superadmin can permanently delete a neighborhood")
	}

	before, err := o.Neighborhoods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("neighborhood")
		}
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		ids := []primitive.ObjectID{id}
		activistCount, err := o.Activists.HardDeleteByNeighborhoods(ctx, ids)
		if err != nil {
			return err
		}
		assignmentCount, err := o.Assignments.DeleteByNeighborhood(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Neighborhoods.HardDelete(ctx, id); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionHardDeleteNeighborhood, audit.EntityNeighborhood, id,
			bson.M{
				"name":            before.Name,
				"status":          before.Status,
				"city_id":         before.CityID.Hex(),
				"activistCount":   activistCount,
				"assignmentCount": assignmentCount,
			}, nil))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityNeighborhood, id)
	return nil
}

// AssignCoordinator links a coordinator record to a neighborhood. The
// coordinator must be active, visible to the actor, and anchored to the
// neighborhood's own city.
func (o *NeighborhoodOps) AssignCoordinator(ctx context.Context, actor models.Actor, neighborhoodID, coordinatorID primitive.ObjectID) error {
	n, err := o.mutableNeighborhood(ctx, actor, neighborhoodID)
	if err != nil {
		return err
	}

	co, err := o.visibleActiveCoordinator(ctx, actor, coordinatorID)
	if err != nil {
		return err
	}
	if co.CityID != n.CityID {
		return IntegrityErr("coordinator belongs to a different city")
	}

	exists, err := o.Assignments.Exists(ctx, coordinatorID, neighborhoodID)
	if err != nil {
		return err
	}
	if exists {
		return ConflictErr(CodeAlreadyAssigned, "coordinator is already assigned to this neighborhood", nil)
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if _, err := o.Assignments.Create(ctx, models.CoordinatorAssignment{
			CoordinatorID:  coordinatorID,
			NeighborhoodID: neighborhoodID,
			AssignedByID:   actor.ID,
		}); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionAssignCoordinator, audit.EntityNeighborhood, neighborhoodID,
			nil, bson.M{"coordinator_id": coordinatorID.Hex()}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityNeighborhood, neighborhoodID)
	return nil
}

// UnassignCoordinator removes the link between a coordinator and a
// neighborhood.
func (o *NeighborhoodOps) UnassignCoordinator(ctx context.Context, actor models.Actor, neighborhoodID, coordinatorID primitive.ObjectID) error {
	if _, err := o.mutableNeighborhood(ctx, actor, neighborhoodID); err != nil {
		return err
	}

	err := txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		deleted, err := o.Assignments.DeleteByPair(ctx, coordinatorID, neighborhoodID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return NotFoundErr("assignment")
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionUnassignCoordinator, audit.EntityNeighborhood, neighborhoodID,
			bson.M{"coordinator_id": coordinatorID.Hex()}, nil))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityNeighborhood, neighborhoodID)
	return nil
}

// mutableNeighborhood loads a neighborhood the actor may modify.
func (o *NeighborhoodOps) mutableNeighborhood(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Neighborhood, error) {
	sc, err := o.Scopes.Neighborhoods(ctx, actor)
	if err != nil {
		return nil, err
	}
	switch access.Mutate(actor, access.KindNeighborhood, sc, id) {
	case access.NotFound:
		return nil, NotFoundErr("neighborhood")
	case access.Denied:
		return nil, DeniedErr("your role cannot modify neighborhoods")
	}
	n, err := o.Neighborhoods.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("neighborhood")
		}
		return nil, err
	}
	return n, nil
}

// visibleActiveCoordinator loads a coordinator record the actor can see,
// rejecting inactive records.
func (o *NeighborhoodOps) visibleActiveCoordinator(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Coordinator, error) {
	co, err := o.Coordinators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, NotFoundErr("coordinator")
		}
		return nil, err
	}

	sc, err := o.Scopes.Coordinators(ctx, actor)
	if err != nil {
		return nil, err
	}
	key := co.CityID
	if sc.Field == "_id" {
		key = co.ID
	}
	if access.Read(actor, sc, key) != access.Allow {
		return nil, NotFoundErr("coordinator")
	}
	if co.Status != status.Active {
		return nil, IntegrityErr("coordinator is inactive")
	}
	return co, nil
}
