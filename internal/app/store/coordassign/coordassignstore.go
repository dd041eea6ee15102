// internal/app/store/coordassign/coordassignstore.go
package coordassign

import (
	"context"
	"time"

	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Assignments join on the coordinator RECORD id, never the underlying user
// id. Historical data carried both keys inconsistently; this store is the
// single place that fixes the convention.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("coordinator_assignments")}
}

// Create inserts a new coordinator-neighborhood assignment.
// If AssignedAt is zero, it is set to now (UTC).
func (s *Store) Create(ctx context.Context, a models.CoordinatorAssignment) (models.CoordinatorAssignment, error) {
	if a.AssignedAt.IsZero() {
		a.AssignedAt = time.Now().UTC()
	}

	res, err := s.c.InsertOne(ctx, a)
	if err != nil {
		return a, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid
	}
	return a, nil
}

// DeleteByPair removes the assignment joining one coordinator to one
// neighborhood. Returns the number of documents deleted (0 or 1).
func (s *Store) DeleteByPair(ctx context.Context, coordinatorID, neighborhoodID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"coordinator_id":  coordinatorID,
		"neighborhood_id": neighborhoodID,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// NeighborhoodIDsByCoordinator returns just the neighborhood ids assigned to
// a coordinator. This is the coordinator's entire structural visibility.
func (s *Store) NeighborhoodIDsByCoordinator(ctx context.Context, coordinatorID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"coordinator_id": coordinatorID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var a models.CoordinatorAssignment
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		ids = append(ids, a.NeighborhoodID)
	}
	return ids, cur.Err()
}

// Exists checks whether a coordinator-neighborhood assignment already exists.
func (s *Store) Exists(ctx context.Context, coordinatorID, neighborhoodID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"coordinator_id":  coordinatorID,
		"neighborhood_id": neighborhoodID,
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// DeleteByCoordinator removes all assignments for a coordinator.
// Used when a coordinator record is hard-deleted.
// Returns the number of documents deleted.
func (s *Store) DeleteByCoordinator(ctx context.Context, coordinatorID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"coordinator_id": coordinatorID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByNeighborhood removes all assignments for a neighborhood.
// Used when a neighborhood is hard-deleted.
// Returns the number of documents deleted.
func (s *Store) DeleteByNeighborhood(ctx context.Context, neighborhoodID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"neighborhood_id": neighborhoodID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByNeighborhoods removes all assignments touching the given
// neighborhoods. Structural cascades only. Returns the number deleted.
func (s *Store) DeleteByNeighborhoods(ctx context.Context, neighborhoodIDs []primitive.ObjectID) (int64, error) {
	if len(neighborhoodIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"neighborhood_id": bson.M{"$in": neighborhoodIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
