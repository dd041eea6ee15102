// internal/app/ops/core.go
//
// Package ops is the mutation pipeline. Every operation takes the resolved
// actor as an explicit argument, decides access against a freshly built
// scope, executes the data write and its audit append inside one
// transaction, and fires the invalidation hook after commit.
package ops

import (
	"github.com/campaignkit/fieldhub/internal/app/policy/scope"
	"github.com/campaignkit/fieldhub/internal/app/store/activists"
	"github.com/campaignkit/fieldhub/internal/app/store/areas"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/store/cities"
	"github.com/campaignkit/fieldhub/internal/app/store/coordassign"
	"github.com/campaignkit/fieldhub/internal/app/store/coordinators"
	"github.com/campaignkit/fieldhub/internal/app/store/invitations"
	"github.com/campaignkit/fieldhub/internal/app/store/neighborhoods"
	"github.com/campaignkit/fieldhub/internal/app/store/users"
	"github.com/campaignkit/fieldhub/internal/app/store/voters"
	"github.com/campaignkit/fieldhub/internal/app/system/auditlog"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// InvalidateFunc is the post-mutation cache/view invalidation hook.
// Fire-and-forget: it runs after commit and its outcome is never awaited.
type InvalidateFunc func(entityType string, id primitive.ObjectID)

// Core bundles the shared dependencies of every ops service.
type Core struct {
	DB  *mongo.Database
	Log *zap.Logger

	Users         *userstore.Store
	Areas         *areastore.Store
	Cities        *citystore.Store
	Neighborhoods *neighborhoodstore.Store
	Activists     *activiststore.Store
	Coordinators  *coordinatorstore.Store
	Assignments   *coordassign.Store
	Voters        *voterstore.Store
	Invitations   *invitationstore.Store
	AuditStore    *audit.Store

	Scopes *scope.Builder
	Audit  *auditlog.Logger

	Invalidate InvalidateFunc
}

// NewCore wires the stores, scope builder, and audit logger off one database
// handle. invalidate may be nil.
func NewCore(db *mongo.Database, log *zap.Logger, invalidate InvalidateFunc) *Core {
	us := userstore.New(db)
	cs := citystore.New(db)
	ns := neighborhoodstore.New(db)
	cos := coordinatorstore.New(db)
	as := coordassign.New(db)
	auditStore := audit.New(db)

	return &Core{
		DB:  db,
		Log: log,

		Users:         us,
		Areas:         areastore.New(db),
		Cities:        cs,
		Neighborhoods: ns,
		Activists:     activiststore.New(db),
		Coordinators:  cos,
		Assignments:   as,
		Voters:        voterstore.New(db),
		Invitations:   invitationstore.New(db),
		AuditStore:    auditStore,

		Scopes: scope.NewBuilder(cs, ns, us, cos, as),
		Audit:  auditlog.New(auditStore, log),

		Invalidate: invalidate,
	}
}

// invalidate fires the hook in the background. Mutations never block on it
// and never observe its result.
func (c *Core) invalidate(entityType string, id primitive.ObjectID) {
	if c.Invalidate == nil {
		return
	}
	go c.Invalidate(entityType, id)
}
