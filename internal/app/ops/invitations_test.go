package ops

import (
	"strings"
	"testing"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestInvitation_CreateAndRedeem(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	invOps := NewInvitationOps(core, 0)
	super := fx.SuperAdmin()

	inv, rawToken, err := invOps.Create(ctx, super, CreateInvitationInput{
		Email: "new.manager@x.com",
		Role:  models.RoleAreaManager,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !strings.HasPrefix(rawToken, inv.ID.Hex()+".") {
		t.Fatalf("token %q does not start with the invitation id", rawToken)
	}
	if strings.Contains(inv.TokenHash, strings.TrimPrefix(rawToken, inv.ID.Hex()+".")) {
		t.Error("stored hash contains the raw secret")
	}

	got, err := invOps.Redeem(ctx, rawToken)
	if err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}
	if got.Status != models.InvitationAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}
	if got.Email != "new.manager@x.com" || got.Role != models.RoleAreaManager {
		t.Errorf("redeemed invitation carries %q/%q", got.Email, got.Role)
	}

	// A second redemption finds the invitation no longer pending.
	_, err = invOps.Redeem(ctx, rawToken)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindConflict {
		t.Fatalf("second redeem: got %v, want conflict", err)
	}
}

func TestInvitation_RedeemRejectsBadSecret(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	invOps := NewInvitationOps(core, 0)

	inv, _, err := invOps.Create(ctx, fx.SuperAdmin(), CreateInvitationInput{
		Email: "new.manager@x.com",
		Role:  models.RoleAreaManager,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	_, err = invOps.Redeem(ctx, inv.ID.Hex()+".wrong-secret")
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindNotFound {
		t.Fatalf("got %v, want not-found for a wrong secret", err)
	}
}

func TestInvitation_RedeemExpired(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	invOps := NewInvitationOps(core, 0)

	inv, rawToken, err := invOps.Create(ctx, fx.SuperAdmin(), CreateInvitationInput{
		Email: "slow.manager@x.com",
		Role:  models.RoleAreaManager,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Backdate the expiry directly; the operation layer never exposes it.
	_, err = fx.DB().Collection("invitations").UpdateOne(ctx,
		bson.M{"_id": inv.ID},
		bson.M{"$set": bson.M{"expires_at": time.Now().UTC().Add(-time.Hour)}})
	if err != nil {
		t.Fatalf("backdate failed: %v", err)
	}

	_, err = invOps.Redeem(ctx, rawToken)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindConflict {
		t.Fatalf("got %v, want conflict for an expired invitation", err)
	}

	got, err := core.Invitations.GetByID(ctx, inv.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != models.InvitationExpired {
		t.Errorf("status = %q, want expired after lazy marking", got.Status)
	}
}

func TestInvitation_PendingBlocksSecond(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	invOps := NewInvitationOps(core, 0)
	super := fx.SuperAdmin()

	if _, _, err := invOps.Create(ctx, super, CreateInvitationInput{
		Email: "new.manager@x.com",
		Role:  models.RoleAreaManager,
	}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, _, err := invOps.Create(ctx, super, CreateInvitationInput{
		Email: "New.Manager@X.com", // same address, different case
		Role:  models.RoleCityCoordinator,
	})
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindConflict || opErr.Code != CodePendingInvitation {
		t.Fatalf("got %v, want conflict %s", err, CodePendingInvitation)
	}
}

func TestInvitation_SuperadminOnly(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	invOps := NewInvitationOps(core, 0)
	area := fx.CreateArea(ctx, "North")

	_, _, err := invOps.Create(ctx, fx.AreaManager(area.ID), CreateInvitationInput{
		Email: "new.manager@x.com",
		Role:  models.RoleAreaManager,
	})
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindAccessDenied {
		t.Fatalf("got %v, want access-denied", err)
	}
}

func TestInvitation_Revoke(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	invOps := NewInvitationOps(core, 0)
	super := fx.SuperAdmin()

	inv, rawToken, err := invOps.Create(ctx, super, CreateInvitationInput{
		Email: "new.manager@x.com",
		Role:  models.RoleAreaManager,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := invOps.Revoke(ctx, super, inv.ID); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	_, err = invOps.Redeem(ctx, rawToken)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindConflict {
		t.Fatalf("got %v, want conflict for a revoked invitation", err)
	}
}

func TestInvitation_RedeemWritesAuditEntry(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	invOps := NewInvitationOps(core, 0)

	inv, rawToken, err := invOps.Create(ctx, fx.SuperAdmin(), CreateInvitationInput{
		Email: "new.manager@x.com",
		Role:  models.RoleAreaManager,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := invOps.Redeem(ctx, rawToken); err != nil {
		t.Fatalf("Redeem failed: %v", err)
	}

	entries, err := core.AuditStore.Query(ctx, audit.QueryFilter{
		Action:   audit.ActionAcceptInvitation,
		EntityID: &inv.ID,
	})
	if err != nil {
		t.Fatalf("querying audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d accept entries, want 1", len(entries))
	}
	e := entries[0]
	if e.EntityType != audit.EntityInvitation {
		t.Errorf("entity type = %q", e.EntityType)
	}
	if got := e.After["status"]; got != string(models.InvitationAccepted) {
		t.Errorf("after.status = %v, want accepted", got)
	}
}
