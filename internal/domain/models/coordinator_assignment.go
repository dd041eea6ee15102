// internal/domain/models/coordinator_assignment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoordinatorAssignment links an activist coordinator (by coordinator record
// id) to a neighborhood they may see and work. A coordinator can hold many
// assignments via multiple records.
type CoordinatorAssignment struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoordinatorID  primitive.ObjectID `bson:"coordinator_id" json:"coordinator_id"`
	NeighborhoodID primitive.ObjectID `bson:"neighborhood_id" json:"neighborhood_id"`

	// Audit fields
	AssignedAt   time.Time          `bson:"assigned_at" json:"assigned_at"`
	AssignedByID primitive.ObjectID `bson:"assigned_by_id" json:"assigned_by_id"`
}
