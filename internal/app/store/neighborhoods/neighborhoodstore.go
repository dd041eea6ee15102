// internal/app/store/neighborhoods/neighborhoodstore.go
package neighborhoodstore

import (
	"context"
	"errors"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/system/normalize"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/app/system/status"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateName is returned when creating a neighborhood whose name already
// exists within its city.
var ErrDuplicateName = errors.New("a neighborhood with this name already exists in the city")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("neighborhoods")}
}

// Create inserts a new neighborhood after normalizing fields.
func (s *Store) Create(ctx context.Context, n models.Neighborhood) (models.Neighborhood, error) {
	n.ID = primitive.NewObjectID()
	n.Name = normalize.Name(n.Name)
	n.NameCI = text.Fold(n.Name)
	if n.Status == "" {
		n.Status = status.Active
	}

	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, n); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Neighborhood{}, ErrDuplicateName
		}
		return models.Neighborhood{}, err
	}
	return n, nil
}

// GetByID returns a single neighborhood.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Neighborhood, error) {
	var n models.Neighborhood
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateName renames a neighborhood.
func (s *Store) UpdateName(ctx context.Context, id primitive.ObjectID, name string) error {
	name = normalize.Name(name)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"name":       name,
		"name_ci":    text.Fold(name),
		"updated_at": time.Now().UTC(),
	}})
	if wafflemongo.IsDup(err) {
		return ErrDuplicateName
	}
	return err
}

// SetStatus flips a neighborhood's status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// HardDelete removes a neighborhood row permanently.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// IDsByCities returns ids of all neighborhoods owned by the given cities.
func (s *Store) IDsByCities(ctx context.Context, cityIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(cityIDs) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"city_id": bson.M{"$in": cityIDs}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var n models.Neighborhood
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		ids = append(ids, n.ID)
	}
	return ids, cur.Err()
}

// CountActiveByCity returns how many active neighborhoods a city still owns.
// Used by the city soft-delete guard.
func (s *Store) CountActiveByCity(ctx context.Context, cityID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"city_id": cityID, "status": status.Active})
}

// List returns neighborhoods matching filter, name-sorted, with a total count.
func (s *Store) List(ctx context.Context, scopeFilter bson.M, includeInactive bool, page paging.Page) ([]models.Neighborhood, int64, error) {
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
		SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Neighborhood
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// HardDeleteByCities removes every neighborhood in the given cities.
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
