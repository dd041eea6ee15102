// internal/app/store/audit/auditstore.go
package audit

import (
	"context"
	"time"

	"github.com/campaignkit/fieldhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Entity types recorded in audit entries.
const (
	EntityArea         = "area"
	EntityCity         = "city"
	EntityNeighborhood = "neighborhood"
	EntityActivist     = "activist"
	EntityCoordinator  = "coordinator"
	EntityVoter        = "voter"
	EntityUser         = "user"
	EntityInvitation   = "invitation"
	EntityAssignment   = "coordinator_assignment"
)

// Actions. The verb prefix carries the mutation kind; the suffix carries the
// entity. Kept flat rather than composed so grep finds every use of one.
const (
	ActionCreateArea         = "CREATE_AREA"
	ActionUpdateArea         = "UPDATE_AREA"
	ActionToggleArea         = "TOGGLE_AREA"
	ActionHardDeleteArea     = "HARD_DELETE_AREA"
	ActionCreateCity         = "CREATE_CITY"
	ActionUpdateCity         = "UPDATE_CITY"
	ActionToggleCity         = "TOGGLE_CITY"
	ActionHardDeleteCity     = "HARD_DELETE_CITY"
	ActionCreateNeighborhood = "CREATE_NEIGHBORHOOD"
	ActionUpdateNeighborhood = "UPDATE_NEIGHBORHOOD"
	ActionToggleNeighborhood = "TOGGLE_NEIGHBORHOOD"
	ActionHardDeleteNeighborhood = "HARD_DELETE_NEIGHBORHOOD"
	ActionCreateActivist     = "CREATE_ACTIVIST"
	ActionUpdateActivist     = "UPDATE_ACTIVIST"
	ActionToggleActivist     = "TOGGLE_ACTIVIST"
	ActionHardDeleteActivist = "HARD_DELETE_ACTIVIST"
	ActionCreateCoordinator     = "CREATE_COORDINATOR"
	ActionToggleCoordinator     = "TOGGLE_COORDINATOR"
	ActionHardDeleteCoordinator = "HARD_DELETE_COORDINATOR"
	ActionAssignCoordinator   = "ASSIGN_COORDINATOR"
	ActionUnassignCoordinator = "UNASSIGN_COORDINATOR"
	ActionCreateVoter     = "CREATE_VOTER"
	ActionUpdateVoter     = "UPDATE_VOTER"
	ActionToggleVoter     = "TOGGLE_VOTER"
	ActionHardDeleteVoter = "HARD_DELETE_VOTER"
	ActionImportVoter     = "IMPORT_VOTER"
	ActionCreateInvitation = "CREATE_INVITATION"
	ActionRevokeInvitation = "REVOKE_INVITATION"
	ActionAcceptInvitation = "ACCEPT_INVITATION"
)

// Entry is one append-only audit record. Before and After are partial
// snapshots holding only the fields the mutation touched, never full rows.
type Entry struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action     string             `bson:"action" json:"action"`
	EntityType string             `bson:"entity_type" json:"entity_type"`
	EntityID   primitive.ObjectID `bson:"entity_id" json:"entity_id"`

	ActorID    primitive.ObjectID `bson:"actor_id" json:"actor_id"`
	ActorEmail string             `bson:"actor_email" json:"actor_email"`
	ActorRole  models.Role        `bson:"actor_role" json:"actor_role"`

	Before bson.M `bson:"before,omitempty" json:"before,omitempty"`
	After  bson.M `bson:"after,omitempty" json:"after,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// QueryFilter defines filters for querying audit entries.
type QueryFilter struct {
	ActorID    *primitive.ObjectID
	Action     string
	EntityType string
	EntityID   *primitive.ObjectID
	Start      *time.Time
	End        *time.Time
	Limit      int64
	Offset     int64
}

// Store manages the audit trail. It exposes append and read operations only;
// there is no update or delete on entries.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_log")}
}

// EnsureIndexes creates the indexes the reporting queries need.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
		{
			Keys: bson.D{
				{Key: "actor_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "entity_type", Value: 1},
				{Key: "entity_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{
				{Key: "action", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Append records one audit entry.
func (s *Store) Append(ctx context.Context, e Entry) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

func (f QueryFilter) query() bson.M {
	query := bson.M{}
	if f.ActorID != nil {
		query["actor_id"] = *f.ActorID
	}
	if f.Action != "" {
		query["action"] = f.Action
	}
	if f.EntityType != "" {
		query["entity_type"] = f.EntityType
	}
	if f.EntityID != nil {
		query["entity_id"] = *f.EntityID
	}
	if f.Start != nil || f.End != nil {
		timeQuery := bson.M{}
		if f.Start != nil {
			timeQuery["$gte"] = *f.Start
		}
		if f.End != nil {
			timeQuery["$lte"] = *f.End
		}
		query["created_at"] = timeQuery
	}
	return query
}

// Query retrieves entries matching the filter, most recent first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cur, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var entries []Entry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByFilter returns the count of entries matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetRecent retrieves the most recent entries.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Entry, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

// CountByEntity returns how many entries reference one entity. Hard-delete
// reporting uses this to show that history survives the row.
func (s *Store) CountByEntity(ctx context.Context, entityType string, entityID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"entity_type": entityType,
		"entity_id":   entityID,
	})
}
