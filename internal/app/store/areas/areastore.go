// internal/app/store/areas/areastore.go
package areastore

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

// ErrDuplicateName is returned when creating an area whose name already exists.
var ErrDuplicateName = errors.New("an area with this name already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("areas")}
}

// Create inserts a new area after normalizing fields.
func (s *Store) Create(ctx context.Context, a models.Area) (models.Area, error) {
	a.ID = primitive.NewObjectID()
	a.Name = normalize.Name(a.Name)
	a.NameCI = text.Fold(a.Name)
	if a.Status == "" {
		a.Status = status.Active
	}

	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Area{}, ErrDuplicateName
		}
		return models.Area{}, err
	}
	return a, nil
}

// GetByID returns a single area.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Area, error) {
	var a models.Area
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateName renames an area.
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

// SetStatus flips an area's status. Soft delete sets Inactive.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// HardDelete removes an area row permanently.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// List returns areas matching filter, name-sorted, with a total count.
// Pass includeInactive=false for default listings.
func (s *Store) List(ctx context.Context, scopeFilter bson.M, includeInactive bool, page paging.Page) ([]models.Area, int64, error) {
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

	var out []models.Area
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
