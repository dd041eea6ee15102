package ops

import (
	"testing"

	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
)

// Voter visibility follows who inserted the record, up the management chain:
// the inserting coordinator, their city coordinator, and their area manager
// see it; a manager of a different area does not.
func TestVoterVisibility_FollowsLineage(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	voterOps := NewVoterOps(core)

	north := fx.CreateArea(ctx, "North")
	south := fx.CreateArea(ctx, "South")
	city := fx.CreateCity(ctx, north.ID, "Springfield")

	acUser := fx.CreateUser(ctx, "AC User", "ac@x.com", models.RoleActivistCoordinator, nil)
	co := fx.CreateCoordinator(ctx, acUser.ID, city.ID)
	ac := fx.ActivistCoordinator(acUser.ID, co.ID)

	v, err := voterOps.Create(ctx, ac, VoterInput{FullName: "Jane Voter", Phone: "0501111111"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if v.InsertedByID != acUser.ID {
		t.Fatalf("inserted_by_id = %v, want the inserting user %v", v.InsertedByID, acUser.ID)
	}

	if _, err := voterOps.GetByID(ctx, ac, v.ID); err != nil {
		t.Errorf("inserter cannot see own voter: %v", err)
	}
	if _, err := voterOps.GetByID(ctx, fx.CityCoordinator(city.ID), v.ID); err != nil {
		t.Errorf("city coordinator cannot see voter from their city: %v", err)
	}
	if _, err := voterOps.GetByID(ctx, fx.AreaManager(north.ID), v.ID); err != nil {
		t.Errorf("area manager cannot see voter from their area: %v", err)
	}

	_, err = voterOps.GetByID(ctx, fx.AreaManager(south.ID), v.ID)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindNotFound {
		t.Fatalf("cross-area read: got %v, want not-found", err)
	}
}

func TestVoterUpdate_NeverMovesLineage(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	voterOps := NewVoterOps(core)
	super := fx.SuperAdmin()

	v, err := voterOps.Create(ctx, super, VoterInput{FullName: "Jane Voter", Phone: "0501111111"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := voterOps.Update(ctx, super, v.ID, VoterInput{FullName: "Jane Q Voter", Phone: "0502222222"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := voterOps.GetByID(ctx, super, v.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.FullName != "Jane Q Voter" {
		t.Errorf("full_name = %q, want updated value", got.FullName)
	}
	if got.InsertedByID != v.InsertedByID {
		t.Errorf("inserted_by_id changed on update: %v -> %v", v.InsertedByID, got.InsertedByID)
	}
}

func TestVoterCreate_RejectsBadEmail(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	voterOps := NewVoterOps(core)

	_, err := voterOps.Create(ctx, fx.SuperAdmin(), VoterInput{FullName: "Jane Voter", Email: "not-an-email"})
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindValidation {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestVoterList_ScopedPerInserter(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	voterOps := NewVoterOps(core)

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")

	u1 := fx.CreateUser(ctx, "First AC", "ac1@x.com", models.RoleActivistCoordinator, nil)
	u2 := fx.CreateUser(ctx, "Second AC", "ac2@x.com", models.RoleActivistCoordinator, nil)
	co1 := fx.CreateCoordinator(ctx, u1.ID, city.ID)
	fx.CreateCoordinator(ctx, u2.ID, city.ID)

	fx.CreateVoter(ctx, u1.ID, "Voter One", "0501111111", "")
	fx.CreateVoter(ctx, u2.ID, "Voter Two", "0502222222", "")

	items, total, err := voterOps.List(ctx, fx.ActivistCoordinator(u1.ID, co1.ID), false, paging.Page{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].FullName != "Voter One" {
		t.Fatalf("coordinator sees %d voters (%v), want only their own", total, items)
	}

	// The city coordinator sees both coordinators' voters.
	_, total, err = voterOps.List(ctx, fx.CityCoordinator(city.ID), false, paging.Page{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("city coordinator sees %d voters, want 2", total)
	}
}

func TestVoterCreate_ImportActionDistinct(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	voterOps := NewVoterOps(core)
	super := fx.SuperAdmin()

	if _, err := voterOps.Create(ctx, super, VoterInput{FullName: "Hand Entered"}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := voterOps.CreateImported(ctx, super, VoterInput{FullName: "Bulk Imported"}); err != nil {
		t.Fatalf("CreateImported failed: %v", err)
	}

	created, err := core.AuditStore.Query(ctx, audit.QueryFilter{Action: audit.ActionCreateVoter})
	if err != nil {
		t.Fatalf("audit query failed: %v", err)
	}
	imported, err := core.AuditStore.Query(ctx, audit.QueryFilter{Action: audit.ActionImportVoter})
	if err != nil {
		t.Fatalf("audit query failed: %v", err)
	}
	if len(created) != 1 || len(imported) != 1 {
		t.Fatalf("got %d create / %d import audit entries, want 1 each", len(created), len(imported))
	}
}
