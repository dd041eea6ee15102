// internal/domain/models/role.go
package models

// Role is the closed set of roles in the campaign hierarchy, ordered from
// widest to narrowest scope. Every scope and access decision dispatches on
// this type exhaustively; an unknown role always resolves to an empty scope.
type Role string

const (
	RoleSuperAdmin           Role = "superadmin"
	RoleAreaManager          Role = "area_manager"
	RoleCityCoordinator      Role = "city_coordinator"
	RoleActivistCoordinator  Role = "activist_coordinator"
)

// ValidRole reports whether r is one of the defined roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleAreaManager, RoleCityCoordinator, RoleActivistCoordinator:
		return true
	}
	return false
}

// Outranks reports whether r sits strictly above other in the hierarchy.
// SuperAdmin > AreaManager > CityCoordinator > ActivistCoordinator.
func (r Role) Outranks(other Role) bool {
	return r.rank() > other.rank()
}

func (r Role) rank() int {
	switch r {
	case RoleSuperAdmin:
		return 4
	case RoleAreaManager:
		return 3
	case RoleCityCoordinator:
		return 2
	case RoleActivistCoordinator:
		return 1
	}
	return 0
}
