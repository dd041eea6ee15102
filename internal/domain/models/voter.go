// internal/domain/models/voter.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Voter is a contact record created by hand or by bulk import.
//
// InsertedByID is the lineage anchor: it records which user created the row
// and never changes afterwards. Voter visibility is computed entirely from
// this field (who inserted it), not from the structural tree.
type Voter struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	InsertedByID primitive.ObjectID `bson:"inserted_by_id" json:"inserted_by_id"`
	FullName     string             `bson:"full_name" json:"full_name"`
	FullNameCI   string             `bson:"full_name_ci" json:"full_name_ci"`
	Phone        string             `bson:"phone" json:"phone"`
	Email        string             `bson:"email" json:"email"`
	Status       string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
