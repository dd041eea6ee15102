package ops

import (
	"testing"

	"github.com/campaignkit/fieldhub/internal/app/store/audit"
	"github.com/campaignkit/fieldhub/internal/app/system/paging"
	"github.com/campaignkit/fieldhub/internal/domain/models"
	"github.com/campaignkit/fieldhub/internal/testutil"
)

// Assignment, not city membership, decides what an activist coordinator
// sees: two coordinators in the same city each see only the neighborhoods
// explicitly assigned to them.
func TestNeighborhoodVisibility_FollowsAssignment(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	nbOps := NewNeighborhoodOps(core)

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")
	downtown := fx.CreateNeighborhood(ctx, city.ID, "Downtown")
	uptown := fx.CreateNeighborhood(ctx, city.ID, "Uptown")

	u1 := fx.CreateUser(ctx, "First AC", "ac1@x.com", models.RoleActivistCoordinator, nil)
	u2 := fx.CreateUser(ctx, "Second AC", "ac2@x.com", models.RoleActivistCoordinator, nil)
	co1 := fx.CreateCoordinator(ctx, u1.ID, city.ID)
	co2 := fx.CreateCoordinator(ctx, u2.ID, city.ID)
	fx.AssignCoordinator(ctx, co1.ID, downtown.ID)
	fx.AssignCoordinator(ctx, co2.ID, uptown.ID)

	ac1 := fx.ActivistCoordinator(u1.ID, co1.ID)

	items, total, err := nbOps.List(ctx, ac1, false, paging.Page{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("got %d/%d neighborhoods, want exactly 1", len(items), total)
	}
	if items[0].ID != downtown.ID {
		t.Errorf("visible neighborhood = %s, want %s", items[0].Name, downtown.Name)
	}

	// The unassigned neighborhood reads as nonexistent, not forbidden.
	_, err = nbOps.GetByID(ctx, ac1, uptown.ID)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindNotFound {
		t.Fatalf("got %v, want not-found", err)
	}
}

func TestAssignCoordinator_RejectsDuplicate(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	nbOps := NewNeighborhoodOps(core)
	super := fx.SuperAdmin()

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")
	nb := fx.CreateNeighborhood(ctx, city.ID, "Downtown")
	u := fx.CreateUser(ctx, "AC User", "ac@x.com", models.RoleActivistCoordinator, nil)
	co := fx.CreateCoordinator(ctx, u.ID, city.ID)

	if err := nbOps.AssignCoordinator(ctx, super, nb.ID, co.ID); err != nil {
		t.Fatalf("first assignment failed: %v", err)
	}

	err := nbOps.AssignCoordinator(ctx, super, nb.ID, co.ID)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindConflict || opErr.Code != CodeAlreadyAssigned {
		t.Fatalf("got %v, want conflict %s", err, CodeAlreadyAssigned)
	}
}

func TestAssignCoordinator_RejectsCrossCity(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	nbOps := NewNeighborhoodOps(core)
	super := fx.SuperAdmin()

	area := fx.CreateArea(ctx, "North")
	springfield := fx.CreateCity(ctx, area.ID, "Springfield")
	shelbyville := fx.CreateCity(ctx, area.ID, "Shelbyville")
	nb := fx.CreateNeighborhood(ctx, springfield.ID, "Downtown")
	u := fx.CreateUser(ctx, "AC User", "ac@x.com", models.RoleActivistCoordinator, nil)
	co := fx.CreateCoordinator(ctx, u.ID, shelbyville.ID)

	err := nbOps.AssignCoordinator(ctx, super, nb.ID, co.ID)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindIntegrity {
		t.Fatalf("got %v, want integrity error for cross-city assignment", err)
	}
}

func TestUnassignCoordinator_AuditsAndRemoves(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	nbOps := NewNeighborhoodOps(core)
	super := fx.SuperAdmin()

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")
	nb := fx.CreateNeighborhood(ctx, city.ID, "Downtown")
	u := fx.CreateUser(ctx, "AC User", "ac@x.com", models.RoleActivistCoordinator, nil)
	co := fx.CreateCoordinator(ctx, u.ID, city.ID)
	fx.AssignCoordinator(ctx, co.ID, nb.ID)

	if err := nbOps.UnassignCoordinator(ctx, super, nb.ID, co.ID); err != nil {
		t.Fatalf("UnassignCoordinator failed: %v", err)
	}

	// Removing again reports the assignment as gone.
	err := nbOps.UnassignCoordinator(ctx, super, nb.ID, co.ID)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindNotFound {
		t.Fatalf("got %v, want not-found on second removal", err)
	}

	entries, err := core.AuditStore.Query(ctx, audit.QueryFilter{Action: audit.ActionUnassignCoordinator})
	if err != nil {
		t.Fatalf("audit query failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d unassign audit entries, want 1", len(entries))
	}
}

func TestDeactivateNeighborhood_GuardsActiveActivists(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	nbOps := NewNeighborhoodOps(core)
	super := fx.SuperAdmin()

	area := fx.CreateArea(ctx, "North")
	city := fx.CreateCity(ctx, area.ID, "Springfield")
	nb := fx.CreateNeighborhood(ctx, city.ID, "Downtown")
	u := fx.CreateUser(ctx, "AC User", "ac@x.com", models.RoleActivistCoordinator, nil)
	co := fx.CreateCoordinator(ctx, u.ID, city.ID)
	fx.CreateActivist(ctx, nb.ID, co.ID, "Worker One")

	err := nbOps.SetStatus(ctx, super, nb.ID, false)
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindConflict || opErr.Code != CodeActivistsExist {
		t.Fatalf("got %v, want conflict %s", err, CodeActivistsExist)
	}
	if got := opErr.Extra["activistCount"]; got != int64(1) {
		t.Errorf("activistCount = %v (%T), want 1", got, got)
	}
}

func TestCreateNeighborhood_ParentCityMustBeInScope(t *testing.T) {
	core, fx := newTestCore(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	north := fx.CreateArea(ctx, "North")
	south := fx.CreateArea(ctx, "South")
	southCity := fx.CreateCity(ctx, south.ID, "Springfield")

	nOps := NewNeighborhoodOps(core)

	// The manager of a different area cannot see the city, so the create
	// reports the city missing rather than forbidden.
	_, err := nOps.Create(ctx, fx.AreaManager(north.ID), CreateNeighborhoodInput{
		Name:   "Riverside",
		CityID: southCity.ID,
	})
	opErr, ok := AsError(err)
	if !ok || opErr.Kind != KindNotFound {
		t.Fatalf("got %v, want not-found for an out-of-scope city", err)
	}

	// The owning area's manager succeeds, with exactly one audit entry.
	created, err := nOps.Create(ctx, fx.AreaManager(south.ID), CreateNeighborhoodInput{
		Name:   "Riverside",
		CityID: southCity.ID,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	entries, err := core.AuditStore.Query(ctx, audit.QueryFilter{EntityID: &created.ID})
	if err != nil {
		t.Fatalf("querying audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d audit entries, want 1", len(entries))
	}
	if entries[0].Action != audit.ActionCreateNeighborhood {
		t.Errorf("action = %q, want %q", entries[0].Action, audit.ActionCreateNeighborhood)
	}
}
