// internal/app/store/voters/voterstore.go
package voterstore

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
	return &Store{c: db.Collection("voters")}
}

// Create inserts a new voter after normalizing contact fields.
// InsertedByID must already be set by the caller; it is never derived here.
func (s *Store) Create(ctx context.Context, v models.Voter) (models.Voter, error) {
	v.ID = primitive.NewObjectID()
	v.FullName = normalize.Name(v.FullName)
	v.FullNameCI = text.Fold(v.FullName)
	v.Phone = normalize.Phone(v.Phone)
	v.Email = normalize.Email(v.Email)
	if v.Status == "" {
		v.Status = status.Active
	}

	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return models.Voter{}, err
	}
	return v, nil
}

// GetByID returns a single voter.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Voter, error) {
	var v models.Voter
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Update holds the voter fields callers may change. The lineage anchor
// inserted_by_id is deliberately absent: it is immutable after creation.
type Update struct {
	FullName string
	Phone    string
	Email    string
}

// UpdateFields applies an Update to a voter.
func (s *Store) UpdateFields(ctx context.Context, id primitive.ObjectID, upd Update) error {
	name := normalize.Name(upd.FullName)
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"full_name":    name,
		"full_name_ci": text.Fold(name),
		"phone":        normalize.Phone(upd.Phone),
		"email":        normalize.Email(upd.Email),
		"updated_at":   time.Now().UTC(),
	}})
	return err
}

// SetStatus flips a voter's status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// HardDelete removes a voter row permanently.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// FindActiveByKeys returns active voters inside scopeFilter whose phone or
// email matches any of the given normalized keys. The duplicate engine calls
// this once per batch; empty key slices contribute no clause, and a call with
// both slices empty returns nothing.
func (s *Store) FindActiveByKeys(ctx context.Context, scopeFilter bson.M, phones, emails []string) ([]models.Voter, error) {
	var keyOr []bson.M
	if len(phones) > 0 {
		keyOr = append(keyOr, bson.M{"phone": bson.M{"$in": phones}})
	}
	if len(emails) > 0 {
		keyOr = append(keyOr, bson.M{"email": bson.M{"$in": emails}})
	}
	if len(keyOr) == 0 {
		return nil, nil
	}

	query := bson.M{"status": status.Active, "$or": keyOr}
	for k, v := range scopeFilter {
		query[k] = v
	}

	cur, err := s.c.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Voter
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns voters matching filter, name-sorted, with a total count.
func (s *Store) List(ctx context.Context, scopeFilter bson.M, includeInactive bool, page paging.Page) ([]models.Voter, int64, error) {
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

	var out []models.Voter
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
