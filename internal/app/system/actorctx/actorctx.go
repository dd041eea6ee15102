// internal/app/system/actorctx/actorctx.go
//
// Package actorctx resolves an authenticated identity into a models.Actor
// carrying role and hierarchy anchor. Resolution happens fresh per request:
// roles and anchors are read from the store, never from the session, so a
// demoted or disabled account loses access on its very next call.
package actorctx

import (
	"context"
	"errors"

	"github.com/campaignkit/fieldhub/internal/app/store/coordinators"
	"github.com/campaignkit/fieldhub/internal/app/store/users"
	"github.com/campaignkit/fieldhub/internal/app/system/status"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNoAccount means the identity has no active user account.
var ErrNoAccount = errors.New("actorctx: no active account for identity")

type Resolver struct {
	users        *userstore.Store
	coordinators *coordinatorstore.Store
	log          *zap.Logger
}

func NewResolver(us *userstore.Store, cs *coordinatorstore.Store, log *zap.Logger) *Resolver {
	return &Resolver{users: us, coordinators: cs, log: log}
}

// Resolve loads the user behind an identity and builds the Actor.
//
// For roles that require an anchor record, a missing or inactive anchor
// leaves the corresponding pointer nil. That is not an error here: the actor
// flows on and every scope built from it resolves to empty. Failing closed at
// the scope layer beats failing the whole request open or shut at this one.
func (r *Resolver) Resolve(ctx context.Context, userID primitive.ObjectID) (models.Actor, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Actor{}, ErrNoAccount
		}
		return models.Actor{}, err
	}
	if u.Status != status.Active {
		return models.Actor{}, ErrNoAccount
	}

	actor := models.Actor{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}

	switch u.Role {
	case models.RoleSuperAdmin:
		// No anchor.
	case models.RoleAreaManager:
		actor.AreaID = u.AreaID
		if actor.AreaID == nil {
			r.log.Warn("area manager without area anchor, scope will be empty",
				zap.String("user_id", u.ID.Hex()))
		}
	case models.RoleCityCoordinator:
		actor.CityID = u.CityID
		if actor.CityID == nil {
			r.log.Warn("city coordinator without city anchor, scope will be empty",
				zap.String("user_id", u.ID.Hex()))
		}
	case models.RoleActivistCoordinator:
		co, err := r.coordinators.GetActiveByUserID(ctx, u.ID)
		switch {
		case err == nil:
			actor.CoordinatorID = &co.ID
		case errors.Is(err, mongo.ErrNoDocuments):
			r.log.Warn("activist coordinator without coordinator record, scope will be empty",
				zap.String("user_id", u.ID.Hex()))
		default:
			return models.Actor{}, err
		}
	default:
		return models.Actor{}, ErrNoAccount
	}

	return actor, nil
}
