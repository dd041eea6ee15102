package actorctx

import (
	"errors"
	"testing"

	coordinatorstore "github.com/campaignkit/fieldhub/internal/app/store/coordinators"
	userstore "github.com/campaignkit/fieldhub/internal/app/store/users"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newResolver(t *testing.T) (*Resolver, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewResolver(userstore.New(db), coordinatorstore.New(db), zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestResolve_AreaManager(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "North")
	u := fx.CreateUser(ctx, "Manager", "am@x.com", models.RoleAreaManager, &area.ID)

	actor, err := r.Resolve(ctx, u.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if actor.Role != models.RoleAreaManager {
		t.Errorf("role = %q", actor.Role)
	}
	if actor.AreaID == nil || *actor.AreaID != area.ID {
		t.Errorf("area anchor = %v, want %v", actor.AreaID, area.ID)
	}
	if !actor.Anchored() {
		t.Error("actor should be anchored")
	}
}

func TestResolve_ActivistCoordinatorAnchor(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")
	u := fx.CreateUser(ctx, "Coordinator", "ac@x.com", models.RoleActivistCoordinator, nil)
	co := fx.CreateCoordinator(ctx, u.ID, city.ID)

	actor, err := r.Resolve(ctx, u.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// The anchor is the coordinator record id, not the user id.
	if actor.CoordinatorID == nil || *actor.CoordinatorID != co.ID {
		t.Errorf("coordinator anchor = %v, want record id %v", actor.CoordinatorID, co.ID)
	}
}

func TestResolve_MissingAnchorLeavesNil(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Activist coordinator user with no coordinator record.
	u := fx.CreateUser(ctx, "Orphan", "orphan@x.com", models.RoleActivistCoordinator, nil)

	actor, err := r.Resolve(ctx, u.ID)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if actor.CoordinatorID != nil {
		t.Errorf("coordinator anchor = %v, want nil", actor.CoordinatorID)
	}
	if actor.Anchored() {
		t.Error("unanchored actor must report Anchored() == false")
	}
}

func TestResolve_UnknownUser(t *testing.T) {
	r, _ := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := r.Resolve(ctx, primitive.NewObjectID())
	if !errors.Is(err, ErrNoAccount) {
		t.Fatalf("got %v, want ErrNoAccount", err)
	}
}

func TestResolve_InactiveUser(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateUser(ctx, "Disabled", "gone@x.com", models.RoleSuperAdmin, nil)
	if err := userstore.New(fx.DB()).SetStatus(ctx, u.ID, "inactive"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	_, err := r.Resolve(ctx, u.ID)
	if !errors.Is(err, ErrNoAccount) {
		t.Fatalf("got %v, want ErrNoAccount for an inactive user", err)
	}
}
