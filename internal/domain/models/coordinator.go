// internal/domain/models/coordinator.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coordinator is the activist-coordinator role record: it ties a user to the
// city they work in and is the anchor for everything that coordinator does.
//
// The record id and the underlying user id are distinct and must not be mixed:
// neighborhood assignments and activist supervision join on the record id,
// voter lineage (inserted_by_id) joins on the user id.
type Coordinator struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"user_id"`
	CityID primitive.ObjectID `bson:"city_id" json:"city_id"`
	Status string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
