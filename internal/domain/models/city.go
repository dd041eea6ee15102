// internal/domain/models/city.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// City belongs to exactly one Area and owns many Neighborhoods.
// A city optionally has one city-coordinator user (users.city_id back-reference).
type City struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AreaID primitive.ObjectID `bson:"area_id" json:"area_id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`
	Status string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
