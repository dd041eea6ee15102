// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data. Each helper
// inserts directly into the collection, bypassing the operation layer, so
// tests can build arbitrary tree states without tripping authorization.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc interface{}) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

func (f *Fixtures) CreateArea(ctx context.Context, name string) models.Area {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Area{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "areas", a)
	return a
}

func (f *Fixtures) CreateCity(ctx context.Context, areaID primitive.ObjectID, name string) models.City {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.City{
		ID:        primitive.NewObjectID(),
		AreaID:    areaID,
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "cities", c)
	return c
}

func (f *Fixtures) CreateNeighborhood(ctx context.Context, cityID primitive.ObjectID, name string) models.Neighborhood {
	f.t.Helper()
	now := time.Now().UTC()
	n := models.Neighborhood{
		ID:        primitive.NewObjectID(),
		CityID:    cityID,
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "neighborhoods", n)
	return n
}

// CreateUser creates a test user. The anchor is interpreted by role: area id
// for area managers, city id for city coordinators, ignored otherwise.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string, role models.Role, anchor *primitive.ObjectID) models.User {
	f.t.Helper()
	now := time.Now().UTC()
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   fullName,
		FullNameCI: text.Fold(fullName),
		Email:      email,
		Role:       role,
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	switch role {
	case models.RoleAreaManager:
		u.AreaID = anchor
	case models.RoleCityCoordinator:
		u.CityID = anchor
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateCoordinator creates a coordinator record tying userID to cityID.
func (f *Fixtures) CreateCoordinator(ctx context.Context, userID, cityID primitive.ObjectID) models.Coordinator {
	f.t.Helper()
	now := time.Now().UTC()
	co := models.Coordinator{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CityID:    cityID,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "coordinators", co)
	return co
}

// AssignCoordinator links a coordinator record to a neighborhood.
func (f *Fixtures) AssignCoordinator(ctx context.Context, coordinatorID, neighborhoodID primitive.ObjectID) models.CoordinatorAssignment {
	f.t.Helper()
	now := time.Now().UTC()
	ca := models.CoordinatorAssignment{
		ID:             primitive.NewObjectID(),
		CoordinatorID:  coordinatorID,
		NeighborhoodID: neighborhoodID,
		AssignedAt:     now,
	}
	f.insert(ctx, "coordinator_assignments", ca)
	return ca
}

func (f *Fixtures) CreateActivist(ctx context.Context, neighborhoodID, coordinatorID primitive.ObjectID, fullName string) models.Activist {
	f.t.Helper()
	now := time.Now().UTC()
	a := models.Activist{
		ID:             primitive.NewObjectID(),
		NeighborhoodID: neighborhoodID,
		CoordinatorID:  coordinatorID,
		FullName:       fullName,
		FullNameCI:     text.Fold(fullName),
		Status:         "active",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	f.insert(ctx, "activists", a)
	return a
}

func (f *Fixtures) CreateVoter(ctx context.Context, insertedBy primitive.ObjectID, fullName, phone, email string) models.Voter {
	f.t.Helper()
	now := time.Now().UTC()
	v := models.Voter{
		ID:           primitive.NewObjectID(),
		InsertedByID: insertedBy,
		FullName:     fullName,
		FullNameCI:   text.Fold(fullName),
		Phone:        phone,
		Email:        email,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "voters", v)
	return v
}

// SuperAdmin returns an actor holding the top role tier.
func (f *Fixtures) SuperAdmin() models.Actor {
	return models.Actor{
		ID:    primitive.NewObjectID(),
		Email: "super@test.com",
		Role:  models.RoleSuperAdmin,
	}
}

// AreaManager returns an actor anchored to the given area.
func (f *Fixtures) AreaManager(areaID primitive.ObjectID) models.Actor {
	return models.Actor{
		ID:     primitive.NewObjectID(),
		Email:  "am@test.com",
		Role:   models.RoleAreaManager,
		AreaID: &areaID,
	}
}

// CityCoordinator returns an actor anchored to the given city.
func (f *Fixtures) CityCoordinator(cityID primitive.ObjectID) models.Actor {
	return models.Actor{
		ID:     primitive.NewObjectID(),
		Email:  "cc@test.com",
		Role:   models.RoleCityCoordinator,
		CityID: &cityID,
	}
}

// ActivistCoordinator returns an actor anchored to the given coordinator
// record.
func (f *Fixtures) ActivistCoordinator(userID, coordinatorID primitive.ObjectID) models.Actor {
	return models.Actor{
		ID:            userID,
		Email:         "ac@test.com",
		Role:          models.RoleActivistCoordinator,
		CoordinatorID: &coordinatorID,
	}
}
