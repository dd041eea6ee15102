package audit

import (
	"testing"
	"time"

	"github.com/campaignkit/fieldhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedEntries(t *testing.T, s *Store) (actorA, actorB, entity primitive.ObjectID) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	actorA = primitive.NewObjectID()
	actorB = primitive.NewObjectID()
	entity = primitive.NewObjectID()

	base := time.Now().UTC().Add(-time.Hour)
	rows := []Entry{
		{Action: ActionCreateArea, EntityType: EntityArea, EntityID: entity, ActorID: actorA, CreatedAt: base},
		{Action: ActionUpdateArea, EntityType: EntityArea, EntityID: entity, ActorID: actorA, CreatedAt: base.Add(time.Minute)},
		{Action: ActionCreateVoter, EntityType: EntityVoter, EntityID: primitive.NewObjectID(), ActorID: actorB, CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range rows {
		if err := s.Append(ctx, e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return actorA, actorB, entity
}

func TestQuery_FilterCombinations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	actorA, actorB, entity := seedEntries(t, s)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	tests := []struct {
		name   string
		filter QueryFilter
		want   int
	}{
		{"unfiltered", QueryFilter{}, 3},
		{"by actor", QueryFilter{ActorID: &actorA}, 2},
		{"by other actor", QueryFilter{ActorID: &actorB}, 1},
		{"by action", QueryFilter{Action: ActionUpdateArea}, 1},
		{"by entity type", QueryFilter{EntityType: EntityArea}, 2},
		{"by entity id", QueryFilter{EntityID: &entity}, 2},
		{"actor and action", QueryFilter{ActorID: &actorA, Action: ActionCreateArea}, 1},
		{"no match", QueryFilter{Action: ActionHardDeleteArea}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d entries, want %d", len(got), tt.want)
			}
			n, err := s.CountByFilter(ctx, tt.filter)
			if err != nil {
				t.Fatalf("CountByFilter failed: %v", err)
			}
			if int(n) != tt.want {
				t.Errorf("count = %d, want %d", n, tt.want)
			}
		})
	}
}

func TestQuery_MostRecentFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	seedEntries(t, s)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := s.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatalf("entries not sorted most recent first: %v before %v",
				got[i-1].CreatedAt, got[i].CreatedAt)
		}
	}
}

func TestQuery_TimeWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	seedEntries(t, s)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A window covering only the two older entries.
	start := time.Now().UTC().Add(-2 * time.Hour)
	end := time.Now().UTC().Add(-58 * time.Minute)
	got, err := s.Query(ctx, QueryFilter{Start: &start, End: &end})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries in window, want 2", len(got))
	}
}

func TestQuery_Paging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	seedEntries(t, s)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	first, err := s.Query(ctx, QueryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("page 1: got %d entries, want 2", len(first))
	}
	second, err := s.Query(ctx, QueryFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("page 2: got %d entries, want 1", len(second))
	}
	if second[0].ID == first[0].ID || second[0].ID == first[1].ID {
		t.Error("pages overlap")
	}
}

func TestAppend_DefaultsIDAndTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := s.Append(ctx, Entry{Action: ActionCreateArea, EntityType: EntityArea, EntityID: primitive.NewObjectID(), ActorID: primitive.NewObjectID()}); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	var e Entry
	if err := db.Collection("audit_log").FindOne(ctx, bson.M{}).Decode(&e); err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if e.ID.IsZero() {
		t.Error("id not assigned")
	}
	if e.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}
}

func TestGetRecent_LimitsAndOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	seedEntries(t, s)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := s.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Action != ActionCreateVoter {
		t.Errorf("first entry action = %q, want the newest (%q)", got[0].Action, ActionCreateVoter)
	}
	if !got[0].CreatedAt.After(got[1].CreatedAt) {
		t.Errorf("entries not in newest-first order: %v then %v", got[0].CreatedAt, got[1].CreatedAt)
	}
}

func TestCountByEntity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	_, _, entity := seedEntries(t, s)

	ctx, cancel := testutil.TestContext()
	defer cancel()

	n, err := s.CountByEntity(ctx, EntityArea, entity)
	if err != nil {
		t.Fatalf("CountByEntity failed: %v", err)
	}
	if n != 2 {
		t.Errorf("count = %d, want 2", n)
	}

	n, err = s.CountByEntity(ctx, EntityVoter, entity)
	if err != nil {
		t.Fatalf("CountByEntity failed: %v", err)
	}
	if n != 0 {
		t.Errorf("count for wrong entity type = %d, want 0", n)
	}
}
