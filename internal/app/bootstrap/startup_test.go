package bootstrap

import (
	"testing"

	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func TestEnsureSuperAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureSuperAdmin(ctx, deps, "superadmin@test.com", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "superadmin@test.com"}).Decode(&user); err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if user.Role != models.RoleSuperAdmin {
		t.Errorf("role = %q, want superadmin", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("status = %q, want active", user.Status)
	}
}

func TestEnsureSuperAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fx.CreateUser(ctx, "Existing User", "existing@test.com", models.RoleActivistCoordinator, nil)
	deps := DBDeps{MongoDatabase: db}

	if err := ensureSuperAdmin(ctx, deps, "existing@test.com", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user); err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.Role != models.RoleSuperAdmin {
		t.Errorf("role = %q, want superadmin after promotion", user.Role)
	}
}

func TestEnsureSuperAdmin_AlreadySuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fx.CreateUser(ctx, "Super Admin", "superadmin@test.com", models.RoleSuperAdmin, nil)
	deps := DBDeps{MongoDatabase: db}

	if err := ensureSuperAdmin(ctx, deps, "superadmin@test.com", zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin failed: %v", err)
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("got %d users, want the one existing superadmin", n)
	}
	var user models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user); err != nil {
		t.Fatalf("failed to find user: %v", err)
	}
	if user.Role != models.RoleSuperAdmin {
		t.Errorf("role = %q, want superadmin", user.Role)
	}
}
