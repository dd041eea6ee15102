// internal/domain/models/actor.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Actor is a fully resolved authenticated user: identity, role, and the
// role-specific hierarchy anchor. It is an explicit value passed into every
// scope, access, and pipeline call — there is no ambient "current user".
//
// A nil anchor on a role that requires one means the anchor record could not
// be resolved; every scope built from such an actor is empty. Fail closed,
// never open.
type Actor struct {
	ID       primitive.ObjectID
	Email    string
	FullName string
	Role     Role

	// AreaID anchors area managers.
	AreaID *primitive.ObjectID
	// CityID anchors city coordinators.
	CityID *primitive.ObjectID
	// CoordinatorID anchors activist coordinators. It is the coordinator
	// record's id, not the user id: all neighborhood assignments join on it.
	CoordinatorID *primitive.ObjectID
}

// IsSuperAdmin reports whether the actor holds the top role tier.
func (a Actor) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }

// Anchored reports whether the actor's role-specific anchor was resolved.
// SuperAdmins need no anchor and are always anchored.
func (a Actor) Anchored() bool {
	switch a.Role {
	case RoleSuperAdmin:
		return true
	case RoleAreaManager:
		return a.AreaID != nil
	case RoleCityCoordinator:
		return a.CityID != nil
	case RoleActivistCoordinator:
		return a.CoordinatorID != nil
	}
	return false
}
