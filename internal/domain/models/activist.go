// internal/domain/models/activist.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activist is a field worker inside a Neighborhood, supervised by one
// activist coordinator (by coordinator record id).
type Activist struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	NeighborhoodID primitive.ObjectID `bson:"neighborhood_id" json:"neighborhood_id"`
	CoordinatorID  primitive.ObjectID `bson:"coordinator_id" json:"coordinator_id"`
	FullName       string             `bson:"full_name" json:"full_name"`
	FullNameCI     string             `bson:"full_name_ci" json:"full_name_ci"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status         string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
