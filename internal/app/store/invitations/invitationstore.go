// internal/app/store/invitations/invitationstore.go
package invitationstore

import (
	"context"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/system/normalize"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invitations")}
}

// Create inserts a new invitation. The caller supplies the token hash; the
// raw token never reaches this layer.
func (s *Store) Create(ctx context.Context, inv models.Invitation) (models.Invitation, error) {
	inv.ID = primitive.NewObjectID()
	inv.Email = normalize.Email(inv.Email)
	if inv.Status == "" {
		inv.Status = models.InvitationPending
	}

	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// GetByID returns a single invitation.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Invitation, error) {
	var inv models.Invitation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// HasPendingByEmail reports whether a live pending invitation already exists
// for the address. Expired-but-unmarked rows do not count.
func (s *Store) HasPendingByEmail(ctx context.Context, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email":      normalize.Email(email),
		"status":     models.InvitationPending,
		"expires_at": bson.M{"$gt": time.Now().UTC()},
	}).Err()
	if err == nil {
		return true, nil
	}
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	return false, err
}

// SetStatus moves an invitation to a new status.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, st string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     st,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// MarkExpired flips every pending invitation past its deadline to expired.
// Returns the number of rows changed.
func (s *Store) MarkExpired(ctx context.Context) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"status":     models.InvitationPending,
			"expires_at": bson.M{"$lte": time.Now().UTC()},
		},
		bson.M{"$set": bson.M{
			"status":     models.InvitationExpired,
			"updated_at": time.Now().UTC(),
		}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// List returns invitations newest-first with a total count. An empty status
// returns all statuses.
func (s *Store) List(ctx context.Context, statusFilter string, page paging.Page) ([]models.Invitation, int64, error) {
	query := bson.M{}
	if statusFilter != "" {
		query["status"] = statusFilter
	}

	total, err := s.c.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit())
	cur, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Invitation
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
