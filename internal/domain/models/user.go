// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in: superadmins, area managers,
// city coordinators, and activist coordinators.
//
// NOTE:
//   - The role anchor (area, city, or coordinator record) is NOT stored on
//     the user document beyond the reference fields below; the actor context
//     resolver looks it up fresh on every request so stale anchors fail closed.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Role       Role               `bson:"role" json:"role"`
	Status     string             `bson:"status" json:"status"`

	// AreaID is set for area managers.
	AreaID *primitive.ObjectID `bson:"area_id,omitempty" json:"area_id,omitempty"`
	// CityID is set for city coordinators.
	CityID *primitive.ObjectID `bson:"city_id,omitempty" json:"city_id,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
