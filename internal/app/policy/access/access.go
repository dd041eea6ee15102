// Package access turns a scope plus a role into an operation verdict.
//
// Two distinct negative verdicts exist on purpose. A row outside the actor's
// scope is reported NotFound so its existence never leaks. A row the actor
// can see but may not touch is reported Denied with the reason. Callers map
// these to their error taxonomy at the operation boundary.
package access

import (
	"github.com/campaignkit/fieldhub/internal/app/policy/scope"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Verdict is the outcome of an access decision.
type Verdict int

const (
	Allow Verdict = iota
	NotFound
	Denied
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case NotFound:
		return "not_found"
	case Denied:
		return "denied"
	}
	return "unknown"
}

// Kind names an entity family for the static permission tables.
type Kind string

const (
	KindArea         Kind = "area"
	KindCity         Kind = "city"
	KindNeighborhood Kind = "neighborhood"
	KindCoordinator  Kind = "coordinator"
	KindActivist     Kind = "activist"
	KindVoter        Kind = "voter"
	KindInvitation   Kind = "invitation"
)

// createCeiling maps each entity kind to the roles allowed to create it.
// Creation inside the actor's scope is still required; this table is only
// the role tier check.
var createCeiling = map[Kind]map[models.Role]bool{
	KindArea: {
		models.RoleSuperAdmin: true,
	},
	KindCity: {
		models.RoleSuperAdmin:  true,
		models.RoleAreaManager: true,
	},
	KindNeighborhood: {
		models.RoleSuperAdmin:      true,
		models.RoleAreaManager:     true,
		models.RoleCityCoordinator: true,
	},
	KindCoordinator: {
		models.RoleSuperAdmin:      true,
		models.RoleAreaManager:     true,
		models.RoleCityCoordinator: true,
	},
	KindActivist: {
		models.RoleSuperAdmin:          true,
		models.RoleAreaManager:         true,
		models.RoleCityCoordinator:     true,
		models.RoleActivistCoordinator: true,
	},
	KindVoter: {
		models.RoleSuperAdmin:          true,
		models.RoleAreaManager:         true,
		models.RoleCityCoordinator:     true,
		models.RoleActivistCoordinator: true,
	},
	KindInvitation: {
		models.RoleSuperAdmin: true,
	},
}

// CanCreate reports whether the actor's role tier may create the given kind.
func CanCreate(actor models.Actor, kind Kind) bool {
	return createCeiling[kind][actor.Role]
}

// CanHardDelete reports whether the actor may irreversibly delete rows.
// Hard delete cascades and cannot be undone, so it stays at the top tier.
func CanHardDelete(actor models.Actor) bool {
	return actor.IsSuperAdmin()
}

// CanQueryAudit reports whether the actor may read the audit trail.
func CanQueryAudit(actor models.Actor) bool {
	return actor.IsSuperAdmin()
}

// Read decides visibility of one row. key is the row's value for the scope's
// field (its own id, its city id, its inserter id — whichever the scope is
// keyed on).
func Read(actor models.Actor, sc scope.Scope, key primitive.ObjectID) Verdict {
	if actor.IsSuperAdmin() {
		return Allow
	}
	if sc.Contains(key) {
		return Allow
	}
	return NotFound
}

// Mutate decides whether the actor may change one visible row. Invisible rows
// stay NotFound; visible rows outside the actor's create ceiling for the kind
// are Denied.
func Mutate(actor models.Actor, kind Kind, sc scope.Scope, key primitive.ObjectID) Verdict {
	if v := Read(actor, sc, key); v != Allow {
		return v
	}
	if !CanCreate(actor, kind) {
		return Denied
	}
	return Allow
}
