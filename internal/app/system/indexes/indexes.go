// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureAreas(ctx, db); err != nil {
		problems = append(problems, "areas: "+err.Error())
	}
	if err := ensureCities(ctx, db); err != nil {
		problems = append(problems, "cities: "+err.Error())
	}
	if err := ensureNeighborhoods(ctx, db); err != nil {
		problems = append(problems, "neighborhoods: "+err.Error())
	}
	if err := ensureCoordinators(ctx, db); err != nil {
		problems = append(problems, "coordinators: "+err.Error())
	}
	if err := ensureCoordinatorAssignments(ctx, db); err != nil {
		problems = append(problems, "coordinator_assignments: "+err.Error())
	}
	if err := ensureActivists(ctx, db); err != nil {
		problems = append(problems, "activists: "+err.Error())
	}
	if err := ensureVoters(ctx, db); err != nil {
		problems = append(problems, "voters: "+err.Error())
	}
	if err := ensureInvitations(ctx, db); err != nil {
		problems = append(problems, "invitations: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Core helper: reconcile a set of desired indexes for one collection         */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func sameBoolPtr(a, b *bool) bool {
	av := a != nil && *a
	bv := b != nil && *b
	return av == bv
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) map[string]existingIndex {
	existing := map[string]existingIndex{} // sig -> index
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return existing
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()), zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		var desiredName string
		var desiredUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				desiredName = *m.Options.Name
			}
			desiredUnique = m.Options.Unique
		}
		desiredSig := keySig(m.Keys.(bson.D))
		start := time.Now()

		existing := listExisting(ctx, coll)
		if ex, ok := existing[desiredSig]; ok {
			if sameBoolPtr(desiredUnique, ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				continue
			}
			// Name or uniqueness mismatch: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && desiredUnique != nil && *desiredUnique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), desiredName))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", desiredSig),
			zap.Bool("unique", desiredUnique != nil && *desiredUnique),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
		// Role pivots for the scope builder (coordinators by city, etc.)
		{
			Keys: bson.D{
				{Key: "role", Value: 1},
				{Key: "status", Value: 1},
				{Key: "city_id", Value: 1},
			},
			Options: options.Index().SetName("idx_users_role_status_city"),
		},
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_users_role_nameci_id"),
		},
	})
}

func ensureAreas(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("areas")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_areas_nameci"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_areas_status_nameci_id"),
		},
	})
}

func ensureCities(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("cities")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// No duplicate city names inside the same area.
		{
			Keys:    bson.D{{Key: "area_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_cities_area_nameci"),
		},
		// Area-manager scope pivot: all cities of an area.
		{
			Keys:    bson.D{{Key: "area_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_cities_area_status"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_cities_status_nameci_id"),
		},
	})
}

func ensureNeighborhoods(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("neighborhoods")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "city_id", Value: 1}, {Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_neighborhoods_city_nameci"),
		},
		{
			Keys:    bson.D{{Key: "city_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_neighborhoods_city_status"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_neighborhoods_status_nameci_id"),
		},
	})
}

func ensureCoordinators(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("coordinators")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One coordinator record per user. Inactive records keep the slot;
		// promoting the same user twice is a data error worth surfacing.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_coordinators_user"),
		},
		// City pivots for area/city scope building.
		{
			Keys:    bson.D{{Key: "city_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_coordinators_city_status"),
		},
	})
}

func ensureCoordinatorAssignments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("coordinator_assignments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Exactly one assignment row per (coordinator, neighborhood).
		{
			Keys:    bson.D{{Key: "coordinator_id", Value: 1}, {Key: "neighborhood_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_ca_coordinator_neighborhood"),
		},
		// Reverse lookup: who covers a neighborhood.
		{
			Keys:    bson.D{{Key: "neighborhood_id", Value: 1}, {Key: "coordinator_id", Value: 1}},
			Options: options.Index().SetName("idx_ca_neighborhood_coordinator"),
		},
	})
}

func ensureActivists(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("activists")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Delete-guard counts by neighborhood and by supervising coordinator.
		{
			Keys:    bson.D{{Key: "neighborhood_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_activists_neighborhood_status"),
		},
		{
			Keys:    bson.D{{Key: "coordinator_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_activists_coordinator_status"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_activists_status_nameci_id"),
		},
	})
}

func ensureVoters(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("voters")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Lineage scope filter: every voter list query keys on inserted_by_id.
		{
			Keys:    bson.D{{Key: "inserted_by_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_voters_insertedby_status"),
		},
		// Duplicate cross-check lookups. Deliberately NOT unique: duplicates
		// are reported for review, never rejected by the store.
		{
			Keys:    bson.D{{Key: "phone", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_voters_phone_status"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_voters_email_status"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "full_name_ci", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_voters_status_nameci_id"),
		},
	})
}

func ensureInvitations(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("invitations")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_invitations_email_status"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_invitations_status_expires"),
		},
	})
}
