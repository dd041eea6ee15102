package importer

import (
	"testing"

	"github.com/campaignkit/fieldhub/internal/app/ops"
	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T) (*Engine, *ops.Core, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	core := ops.NewCore(db, zap.NewNop(), nil)
	return New(core, ops.NewVoterOps(core), zap.NewNop()), core, testutil.NewFixtures(t, db)
}

func TestCheckBatch_FindsStoredDuplicateWithInserter(t *testing.T) {
	engine, _, fx := newTestEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")
	acUser := fx.CreateUser(ctx, "First Inserter", "ac@x.com", models.RoleActivistCoordinator, nil)
	fx.CreateCoordinator(ctx, acUser.ID, city.ID)
	stored := fx.CreateVoter(ctx, acUser.ID, "Jane Voter", "0501111111", "jane@x.com")

	dups, err := engine.CheckBatch(ctx, fx.SuperAdmin(), []Row{
		{FullName: "Jane V", Phone: "0501111111", Email: "JANE@x.com"},
		{FullName: "Someone Else", Phone: "0509999999", Email: "else@x.com"},
	})
	if err != nil {
		t.Fatalf("CheckBatch failed: %v", err)
	}
	if len(dups) != 1 {
		t.Fatalf("got %d duplicates, want 1: %+v", len(dups), dups)
	}
	d := dups[0]
	if d.Kind != InStore {
		t.Errorf("kind = %q, want %q", d.Kind, InStore)
	}
	if d.Row != 1 {
		t.Errorf("row = %d, want 1", d.Row)
	}
	if d.VoterID != stored.ID || d.VoterName != "Jane Voter" {
		t.Errorf("matched voter = %v %q", d.VoterID, d.VoterName)
	}
	if d.InsertedByID != acUser.ID || d.InsertedByName != "First Inserter" {
		t.Errorf("inserter = %v %q, want the original coordinator", d.InsertedByID, d.InsertedByName)
	}
	if d.InsertedByRole != string(models.RoleActivistCoordinator) {
		t.Errorf("inserter role = %q", d.InsertedByRole)
	}
}

// Duplicate detection reads through the actor's voter scope: a coordinator
// checking a batch never learns about matches they could not see by listing.
func TestCheckBatch_ScopedToActor(t *testing.T) {
	engine, _, fx := newTestEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")
	u1 := fx.CreateUser(ctx, "First AC", "ac1@x.com", models.RoleActivistCoordinator, nil)
	u2 := fx.CreateUser(ctx, "Second AC", "ac2@x.com", models.RoleActivistCoordinator, nil)
	co1 := fx.CreateCoordinator(ctx, u1.ID, city.ID)
	fx.CreateCoordinator(ctx, u2.ID, city.ID)

	// The colliding voter belongs to the other coordinator.
	fx.CreateVoter(ctx, u2.ID, "Jane Voter", "0501111111", "jane@x.com")

	dups, err := engine.CheckBatch(ctx, fx.ActivistCoordinator(u1.ID, co1.ID), []Row{
		{FullName: "Jane V", Phone: "0501111111", Email: "jane@x.com"},
	})
	if err != nil {
		t.Fatalf("CheckBatch failed: %v", err)
	}
	if len(dups) != 0 {
		t.Fatalf("got %d duplicates, want 0 (out-of-scope voters are invisible): %+v", len(dups), dups)
	}

	// The city coordinator, who sees both inserters, does get the finding.
	dups, err = engine.CheckBatch(ctx, fx.CityCoordinator(city.ID), []Row{
		{FullName: "Jane V", Phone: "0501111111", Email: "jane@x.com"},
	})
	if err != nil {
		t.Fatalf("CheckBatch failed: %v", err)
	}
	if len(dups) != 1 {
		t.Fatalf("got %d duplicates, want 1", len(dups))
	}
}

func TestCheckBatch_IgnoresInactiveVoters(t *testing.T) {
	engine, core, fx := newTestEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	super := fx.SuperAdmin()
	v := fx.CreateVoter(ctx, super.ID, "Jane Voter", "0501111111", "jane@x.com")
	if err := core.Voters.SetStatus(ctx, v.ID, "inactive"); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}

	dups, err := engine.CheckBatch(ctx, super, []Row{
		{FullName: "Jane V", Phone: "0501111111", Email: "jane@x.com"},
	})
	if err != nil {
		t.Fatalf("CheckBatch failed: %v", err)
	}
	if len(dups) != 0 {
		t.Fatalf("got %d duplicates against an inactive voter, want 0", len(dups))
	}
}

func TestImportBatch_EachRowItsOwnUnit(t *testing.T) {
	engine, core, fx := newTestEngine(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	super := fx.SuperAdmin()

	results, skipped, err := engine.ImportBatch(ctx, super, []Row{
		{FullName: "Good Row", Phone: "0501111111", Email: "one@x.com"},
		{FullName: "", Phone: "0502222222", Email: "two@x.com"}, // fails validation
		{FullName: "Also Good", Phone: "0503333333", Email: "three@x.com"},
	})
	if err != nil {
		t.Fatalf("ImportBatch failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Error != "" || results[2].Error != "" {
		t.Errorf("good rows reported errors: %+v", results)
	}
	if results[1].Error == "" {
		t.Error("invalid row reported no error")
	}
	if results[1].Row != 2 {
		t.Errorf("failed row number = %d, want 2", results[1].Row)
	}

	// The two committed rows each carry an import audit entry.
	entries, err := core.AuditStore.Query(ctx, audit.QueryFilter{Action: audit.ActionImportVoter})
	if err != nil {
		t.Fatalf("audit query failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d import audit entries, want 2", len(entries))
	}
}
