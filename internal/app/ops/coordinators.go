// internal/app/ops/coordinators.go
package ops

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/policy/access"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/store/coordinators"
	"github.com/campaignkit/fieldhub/internal/app/system/auditlog"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/status"
	"github.com/campaignkit/fieldhub/internal/app/system/txn"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CoordinatorOps manages activist-coordinator role records. A record links a
// user account to the city it coordinates in; neighborhood coverage lives in
// the assignment relation, keyed by the record id.
type CoordinatorOps struct {
	*Core
}

func NewCoordinatorOps(c *Core) *CoordinatorOps { return &CoordinatorOps{Core: c} }

type CreateCoordinatorInput struct {
	UserID primitive.ObjectID
	CityID primitive.ObjectID
}

func (o *CoordinatorOps) Create(ctx context.Context, actor models.Actor, in CreateCoordinatorInput) (models.Coordinator, error) {
	if in.UserID.IsZero() {
		return models.Coordinator{}, Validationf("user is required")
	}
	if in.CityID.IsZero() {
		return models.Coordinator{}, Validationf("city is required")
	}
	if !access.CanCreate(actor, access.KindCoordinator) {
		return models.Coordinator{}, DeniedErr("your role cannot create coordinator records")
	}

	cityScope, err := o.Scopes.Cities(ctx, actor)
	if err != nil {
		return models.Coordinator{}, err
	}
	if access.Read(actor, cityScope, in.CityID) != access.Allow {
		return models.Coordinator{}, NotFoundErr("city")
	}
	city, err := o.Cities.GetByID(ctx, in.CityID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Coordinator{}, NotFoundErr("city")
		}
		return models.Coordinator{}, err
	}
	if city.Status != status.Active {
		return models.Coordinator{}, IntegrityErr("city is inactive")
	}

	u, err := o.Users.GetByID(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Coordinator{}, NotFoundErr("user")
		}
		return models.Coordinator{}, err
	}
	if u.Status != status.Active {
		return models.Coordinator{}, IntegrityErr("user account is inactive")
	}
	if u.Role != models.RoleActivistCoordinator {
		return models.Coordinator{}, IntegrityErr("user does not hold the activist coordinator role")
	}

	var created models.Coordinator
	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		co, err := o.Coordinators.Create(ctx, models.Coordinator{
			UserID: in.UserID,
			CityID: in.CityID,
		})
		if err != nil {
			return err
		}
		created = co
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionCreateCoordinator, audit.EntityCoordinator, co.ID,
			nil, bson.M{
				"user_id": co.UserID.Hex(),
				"city_id": co.CityID.Hex(),
				"status":  co.Status,
			}))
	})
	if err != nil {
		if errors.Is(err, coordinatorstore.ErrDuplicateUser) {
			return models.Coordinator{}, ConflictErr(CodeDuplicateUser, "user already has a coordinator record", nil)
		}
		return models.Coordinator{}, err
	}

	o.invalidate(audit.EntityCoordinator, created.ID)
	return created, nil
}

func (o *CoordinatorOps) List(ctx context.Context, actor models.Actor, includeInactive bool, page paging.Page) ([]models.Coordinator, int64, error) {
	sc, err := o.Scopes.Coordinators(ctx, actor)
	if err != nil {
		return nil, 0, err
	}
	return o.Coordinators.List(ctx, sc.Filter(), includeInactive, page)
}

func (o *CoordinatorOps) GetByID(ctx context.Context, actor models.Actor, id primitive.ObjectID) (*models.Coordinator, error) {
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
	return co, nil
}

// SetStatus activates or deactivates a coordinator record. Deactivation is
// blocked while the coordinator still supervises active activists.
func (o *CoordinatorOps) SetStatus(ctx context.Context, actor models.Actor, id primitive.ObjectID, active bool) error {
	before, err := o.GetByID(ctx, actor, id)
	if err != nil {
		return err
	}
	if !access.CanCreate(actor, access.KindCoordinator) {
		return DeniedErr("your role cannot modify coordinator records")
	}

	next := status.Inactive
	if active {
		next = status.Active
	}
	if before.Status == next {
		return nil
	}

	if !active {
		n, err := o.Activists.CountActiveByCoordinator(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ConflictErr(CodeActivistsExist,
				"coordinator still supervises active activists",
				map[string]interface{}{"activistCount": n})
		}
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		if err := o.Coordinators.SetStatus(ctx, id, next); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionToggleCoordinator, audit.EntityCoordinator, id,
			bson.M{"status": before.Status}, bson.M{"status": next}))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityCoordinator, id)
	return nil
}

// HardDelete removes a coordinator record and its neighborhood assignments.
// Supervised activists survive; they keep a dangling coordinator reference
// the audit entry records for cleanup.
func (o *CoordinatorOps) HardDelete(ctx context.Context, actor models.Actor, id primitive.ObjectID) error {
	if !access.CanHardDelete(actor) {
		return DeniedErr("only a superadmin can permanently delete a coordinator record")
	}

	before, err := o.Coordinators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return NotFoundErr("coordinator")
		}
		return err
	}

	activistCount, err := o.Activists.CountActiveByCoordinator(ctx, id)
	if err != nil {
		return err
	}

	err = txn.Run(ctx, o.DB, o.Log, func(ctx context.Context) error {
		assignmentCount, err := o.Assignments.DeleteByCoordinator(ctx, id)
		if err != nil {
			return err
		}
		if err := o.Coordinators.HardDelete(ctx, id); err != nil {
			return err
		}
		return o.Audit.Record(ctx, auditlog.Entry(actor,
			audit.ActionHardDeleteCoordinator, audit.EntityCoordinator, id,
			bson.M{
				"user_id":         before.UserID.Hex(),
				"city_id":         before.CityID.Hex(),
				"status":          before.Status,
				"activistCount":   activistCount,
				"assignmentCount": assignmentCount,
			}, nil))
	})
	if err != nil {
		return err
	}

	o.invalidate(audit.EntityCoordinator, id)
	return nil
}
