// internal/domain/models/neighborhood.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Neighborhood belongs to exactly one City and owns many Activists.
//
// NOTE:
//   - Coordinator visibility is NOT embedded here. Which activist coordinators
//     may see a neighborhood is stored in the coordinator_assignments
//     collection; a coordinator sees only neighborhoods explicitly assigned
//     there, not every neighborhood in their city.
type Neighborhood struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CityID primitive.ObjectID `bson:"city_id" json:"city_id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`
	Status string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
