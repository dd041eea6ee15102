// internal/app/store/cities/citystore.go
package citystore

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

// ErrDuplicateName is returned when creating a city whose name already exists
// within its area.
var ErrDuplicateName = errors.New("a city with this name already exists in the area")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("cities")}
}

// Create inserts a new city after normalizing fields.
func (s *Store) Create(ctx context.Context, c models.City) (models.City, error) {
	c.ID = primitive.NewObjectID()
	c.Name = normalize.Name(c.Name)
	c.NameCI = text.Fold(c.Name)
	if c.Status == "" {
		c.Status = status.Active
	}

	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, c); err != nil {
		if wafflemongo.IsDup(err) {
			return models.City{}, ErrDuplicateName
		}
		return models.City{}, err
	}
	return c, nil
}

// GetByID returns a single city.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.City, error) {
	var c models.City
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UpdateName renames a city.
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

// SetStatus flips a city's status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// HardDelete removes a city row permanently.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// IDsByArea returns the ids of all cities in an area (any status).
// This is the pivot for every area-manager scope computation.
func (s *Store) IDsByArea(ctx context.Context, areaID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"area_id": areaID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var c models.City
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		ids = append(ids, c.ID)
	}
	return ids, cur.Err()
}

// CountActiveByArea returns how many active cities an area still owns.
// Used by the area soft-delete guard.
func (s *Store) CountActiveByArea(ctx context.Context, areaID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"area_id": areaID, "status": status.Active})
}

// List returns cities matching filter, name-sorted, with a total count.
func (s *Store) List(ctx context.Context, scopeFilter bson.M, includeInactive bool, page paging.Page) ([]models.City, int64, error) {
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

	var out []models.City
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// HardDeleteByArea removes every city in an area. Area cascade only.
// Returns the number of documents deleted.
func (s *Store) HardDeleteByArea(ctx context.Context, areaID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"area_id": areaID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
