// internal/app/system/status/status.go
package status

// Entity status values. Soft delete flips a record to Inactive; the row stays
// queryable for audit but drops out of default listings.
const (
	Active   = "active"
	Inactive = "inactive"
)

// IsValid reports whether s is a recognized status value.
func IsValid(s string) bool {
	return s == Active || s == Inactive
}

// Toggle returns the opposite status.
func Toggle(s string) string {
	if s == Active {
		return Inactive
	}
	return Active
}
