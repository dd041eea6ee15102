// internal/app/store/coordinators/coordinatorstore.go
package coordinatorstore

import (
	"context"
	"errors"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/status"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateUser is returned when the user already holds an active
// coordinator record.
var ErrDuplicateUser = errors.New("this user already has a coordinator record")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("coordinators")}
}

// Create inserts a new coordinator record.
func (s *Store) Create(ctx context.Context, co models.Coordinator) (models.Coordinator, error) {
	co.ID = primitive.NewObjectID()
	if co.Status == "" {
		co.Status = status.Active
	}

	now := time.Now().UTC()
	co.CreatedAt = now
	co.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, co); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Coordinator{}, ErrDuplicateUser
		}
		return models.Coordinator{}, err
	}
	return co, nil
}

// GetByID returns a single coordinator record.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Coordinator, error) {
	var co models.Coordinator
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&co); err != nil {
		return nil, err
	}
	return &co, nil
}

// GetActiveByUserID resolves a user's active coordinator record.
// This is the anchor lookup the actor context resolver performs; missing
// records surface as mongo.ErrNoDocuments and the caller fails closed.
func (s *Store) GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Coordinator, error) {
	var co models.Coordinator
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "status": status.Active}).Decode(&co)
	if err != nil {
		return nil, err
	}
	return &co, nil
}

// SetStatus flips a coordinator record's status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// HardDelete removes a coordinator record permanently.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ActiveUserIDsByCities returns the user ids behind every active coordinator
// record anchored to one of the given cities. Voter lineage scope pivots on
// these ids: lineage is traced to users, not to coordinator records.
func (s *Store) ActiveUserIDsByCities(ctx context.Context, cityIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(cityIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{
		"city_id": bson.M{"$in": cityIDs},
		"status":  status.Active,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var co models.Coordinator
		if err := cur.Decode(&co); err != nil {
			return nil, err
		}
		ids = append(ids, co.UserID)
	}
	return ids, cur.Err()
}

// List returns coordinator records matching filter with a total count.
func (s *Store) List(ctx context.Context, scopeFilter bson.M, includeInactive bool, page paging.Page) ([]models.Coordinator, int64, error) {
	query := bson.M{}
	for k, v := range scopeFilter {
		query[k] = v
	}
	if !includeInactive {
		query["status"] = status.Active
	}

	total, err := s.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Coordinator
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// HardDeleteByCities removes every coordinator record in the given cities.
// City and area cascades only. Returns the number of documents deleted.
func (s *Store) HardDeleteByCities(ctx context.Context, cityIDs []primitive.ObjectID) (int64, error) {
	if len(cityIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"city_id": bson.M{"$in": cityIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
