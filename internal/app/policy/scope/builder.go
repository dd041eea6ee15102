// internal/app/policy/scope/builder.go
package scope

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/store/cities"
	"github.com/campaignkit/fieldhub/internal/app/store/coordassign"
	"github.com/campaignkit/fieldhub/internal/app/store/coordinators"
	"github.com/campaignkit/fieldhub/internal/app/store/neighborhoods"
	"github.com/campaignkit/fieldhub/internal/app/store/users"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Builder computes per-entity scopes for an actor. Every method follows the
// same pattern: superadmin is unrestricted, a missing anchor is empty, and
// everything else expands the actor's anchor through the hierarchy.
type Builder struct {
	cities        *citystore.Store
	neighborhoods *neighborhoodstore.Store
	users         *userstore.Store
	coordinators  *coordinatorstore.Store
	assignments   *coordassign.Store
}

func NewBuilder(
	cs *citystore.Store,
	ns *neighborhoodstore.Store,
	us *userstore.Store,
	cos *coordinatorstore.Store,
	as *coordassign.Store,
) *Builder {
	return &Builder{
		cities:        cs,
		neighborhoods: ns,
		users:         us,
		coordinators:  cos,
		assignments:   as,
	}
}

// cityIDs expands an area manager's anchor into the cities it covers.
func (b *Builder) cityIDs(ctx context.Context, areaID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return b.cities.IDsByArea(ctx, areaID)
}

// Areas scopes the areas collection by _id.
func (b *Builder) Areas(ctx context.Context, actor models.Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return Unrestricted("_id"), nil
	case models.RoleAreaManager:
		if actor.AreaID == nil {
			return Empty("_id"), nil
		}
		return Keyed("_id", []primitive.ObjectID{*actor.AreaID}), nil
	default:
		// City and activist coordinators do not operate on areas.
		return Empty("_id"), nil
	}
}

// Cities scopes the cities collection by _id.
func (b *Builder) Cities(ctx context.Context, actor models.Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return Unrestricted("_id"), nil
	case models.RoleAreaManager:
		if actor.AreaID == nil {
			return Empty("_id"), nil
		}
		ids, err := b.cityIDs(ctx, *actor.AreaID)
		if err != nil {
			return Scope{}, err
		}
		return Keyed("_id", ids), nil
	case models.RoleCityCoordinator:
		if actor.CityID == nil {
			return Empty("_id"), nil
		}
		return Keyed("_id", []primitive.ObjectID{*actor.CityID}), nil
	case models.RoleActivistCoordinator:
		if actor.CoordinatorID == nil {
			return Empty("_id"), nil
		}
		co, err := b.coordinators.GetByID(ctx, *actor.CoordinatorID)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return Empty("_id"), nil
			}
			return Scope{}, err
		}
		return Keyed("_id", []primitive.ObjectID{co.CityID}), nil
	default:
		return Empty("_id"), nil
	}
}

// Neighborhoods scopes the neighborhoods collection by _id.
//
// For an activist coordinator, scope is only the neighborhoods explicitly in
// the assignment relation, not every neighborhood in the coordinator's city.
func (b *Builder) Neighborhoods(ctx context.Context, actor models.Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return Unrestricted("_id"), nil
	case models.RoleAreaManager:
		if actor.AreaID == nil {
			return Empty("_id"), nil
		}
		cityIDs, err := b.cityIDs(ctx, *actor.AreaID)
		if err != nil {
			return Scope{}, err
		}
		ids, err := b.neighborhoods.IDsByCities(ctx, cityIDs)
		if err != nil {
			return Scope{}, err
		}
		return Keyed("_id", ids), nil
	case models.RoleCityCoordinator:
		if actor.CityID == nil {
			return Empty("_id"), nil
		}
		ids, err := b.neighborhoods.IDsByCities(ctx, []primitive.ObjectID{*actor.CityID})
		if err != nil {
			return Scope{}, err
		}
		return Keyed("_id", ids), nil
	case models.RoleActivistCoordinator:
		if actor.CoordinatorID == nil {
			return Empty("_id"), nil
		}
		ids, err := b.assignments.NeighborhoodIDsByCoordinator(ctx, *actor.CoordinatorID)
		if err != nil {
			return Scope{}, err
		}
		return Keyed("_id", ids), nil
	default:
		return Empty("_id"), nil
	}
}

// Activists scopes the activists collection by neighborhood_id, reusing the
// actor's neighborhood visibility.
func (b *Builder) Activists(ctx context.Context, actor models.Actor) (Scope, error) {
	if actor.Role == models.RoleSuperAdmin {
		return Unrestricted("neighborhood_id"), nil
	}
	ns, err := b.Neighborhoods(ctx, actor)
	if err != nil {
		return Scope{}, err
	}
	return Keyed("neighborhood_id", ns.Keys), nil
}

// Coordinators scopes coordinator records. Area and city tiers see records by
// city membership; an activist coordinator sees only their own record.
func (b *Builder) Coordinators(ctx context.Context, actor models.Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return Unrestricted("city_id"), nil
	case models.RoleAreaManager:
		if actor.AreaID == nil {
			return Empty("city_id"), nil
		}
		ids, err := b.cityIDs(ctx, *actor.AreaID)
		if err != nil {
			return Scope{}, err
		}
		return Keyed("city_id", ids), nil
	case models.RoleCityCoordinator:
		if actor.CityID == nil {
			return Empty("city_id"), nil
		}
		return Keyed("city_id", []primitive.ObjectID{*actor.CityID}), nil
	case models.RoleActivistCoordinator:
		if actor.CoordinatorID == nil {
			return Empty("_id"), nil
		}
		return Keyed("_id", []primitive.ObjectID{*actor.CoordinatorID}), nil
	default:
		return Empty("city_id"), nil
	}
}

// Voters scopes the voters collection by inserted_by_id lineage.
//
// The keys are USER ids: the actor's own id plus the user ids of every
// coordinator whose inserts the actor may see. An activist coordinator sees
// only their own inserts; visibility is deliberately not extended through
// supervised neighborhoods.
func (b *Builder) Voters(ctx context.Context, actor models.Actor) (Scope, error) {
	switch actor.Role {
	case models.RoleSuperAdmin:
		return Unrestricted("inserted_by_id"), nil

	case models.RoleAreaManager:
		if actor.AreaID == nil {
			return Empty("inserted_by_id"), nil
		}
		cityIDs, err := b.cityIDs(ctx, *actor.AreaID)
		if err != nil {
			return Scope{}, err
		}
		keys := []primitive.ObjectID{actor.ID}
		ccIDs, err := b.users.ActiveIDsByRoleCity(ctx, models.RoleCityCoordinator, cityIDs)
		if err != nil {
			return Scope{}, err
		}
		keys = append(keys, ccIDs...)
		acIDs, err := b.coordinators.ActiveUserIDsByCities(ctx, cityIDs)
		if err != nil {
			return Scope{}, err
		}
		keys = append(keys, acIDs...)
		return Keyed("inserted_by_id", keys), nil

	case models.RoleCityCoordinator:
		if actor.CityID == nil {
			return Empty("inserted_by_id"), nil
		}
		keys := []primitive.ObjectID{actor.ID}
		acIDs, err := b.coordinators.ActiveUserIDsByCities(ctx, []primitive.ObjectID{*actor.CityID})
		if err != nil {
			return Scope{}, err
		}
		keys = append(keys, acIDs...)
		return Keyed("inserted_by_id", keys), nil

	case models.RoleActivistCoordinator:
		if actor.CoordinatorID == nil {
			return Empty("inserted_by_id"), nil
		}
		return Keyed("inserted_by_id", []primitive.ObjectID{actor.ID}), nil

	default:
		return Empty("inserted_by_id"), nil
	}
}
