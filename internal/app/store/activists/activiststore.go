// internal/app/store/activists/activiststore.go
package activiststore

import (
	"context"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/system/normalize"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/status"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("activists")}
}

// Create inserts a new activist after normalizing fields.
func (s *Store) Create(ctx context.Context, a models.Activist) (models.Activist, error) {
	a.ID = primitive.NewObjectID()
	a.FullName = normalize.Name(a.FullName)
	a.FullNameCI = text.Fold(a.FullName)
	a.Phone = normalize.Phone(a.Phone)
	if a.Status == "" {
		a.Status = status.Active
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Activist{}, err
	}
	return a, nil
}

// GetByID returns a single activist.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Activist, error) {
	var a models.Activist
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update holds the activist fields callers may change.
// Neighborhood and supervising coordinator move together or not at all.
type Update struct {
	FullName       string
	Phone          string
	NeighborhoodID primitive.ObjectID
	CoordinatorID  primitive.ObjectID
}

// UpdateFields applies an Update to an activist.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.FullName)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name":       name,
		"full_name_ci":    text.Fold(name),
		"phone":           normalize.Phone(upd.Phone),
		"neighborhood_id": upd.NeighborhoodID,
		"coordinator_id":  upd.CoordinatorID,
		"updated_at":      time.Now().UTC(),
	}})
	return err
}

// SetStatus flips an activist's status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// HardDelete removes an activist row permanently.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// CountActiveByNeighborhood returns the live activist count for one
// neighborhood. The neighborhood soft-delete guard reports this number.
func (s *Store) CountActiveByNeighborhood(ctx context.Context, neighborhoodID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"neighborhood_id": neighborhoodID,
		"status":          status.Active,
	})
}

// CountActiveByCoordinator returns the live activist count supervised by one
// coordinator record. The coordinator soft-delete guard reports this number.
func (s *Store) CountActiveByCoordinator(ctx context.Context, coordinatorID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"coordinator_id": coordinatorID,
		"status":         status.Active,
	})
}

// List returns activists matching filter, name-sorted, with a total count.
func (s *Store) List(ctx context.Context, scopeFilter bson.M, includeInactive bool, page paging.Page) ([]models.Activist, int64, error) {
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
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Activist
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// HardDeleteByNeighborhoods removes every activist in the given
// neighborhoods. Structural cascades only. Returns the number deleted.
func (s *Store) HardDeleteByNeighborhoods(ctx context.Context, neighborhoodIDs []primitive.ObjectID) (int64, error) {
	if len(neighborhoodIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"neighborhood_id": bson.M{"$in": neighborhoodIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
