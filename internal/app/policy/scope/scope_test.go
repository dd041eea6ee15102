package scope

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUnrestrictedContainsEverything(t *testing.T) {
	s := Unrestricted("inserted_by_id")

	if s.IsEmpty() {
		t.Fatal("unrestricted scope reported empty")
	}
	for i := 0; i < 5; i++ {
		if !s.Contains(primitive.NewObjectID()) {
			t.Fatal("unrestricted scope rejected an id")
		}
	}
	if got := s.Filter(); len(got) != 0 {
		t.Errorf("unrestricted Filter() = %v, want empty filter", got)
	}
}

func TestEmptyContainsNothing(t *testing.T) {
	s := Empty("inserted_by_id")

	if !s.IsEmpty() {
		t.Fatal("empty scope reported non-empty")
	}
	if s.Contains(primitive.NewObjectID()) {
		t.Fatal("empty scope matched an id")
	}
}

// An empty scope must render as an always-false filter, never as an
// unrestricted one. A nil key slice marshalling to $in:null would make the
// query error out; an empty filter would leak every row.
func TestEmptyFilterMatchesNoDocuments(t *testing.T) {
	s := Empty("inserted_by_id")

	f := s.Filter()
	clause, ok := f["inserted_by_id"].(bson.M)
	if !ok {
		t.Fatalf("Filter() = %v, want $in clause on inserted_by_id", f)
	}
	keys, ok := clause["$in"].([]primitive.ObjectID)
	if !ok {
		t.Fatalf("$in value is %T, want []primitive.ObjectID", clause["$in"])
	}
	if keys == nil {
		t.Fatal("$in keys are nil, would marshal as null")
	}
	if len(keys) != 0 {
		t.Errorf("$in keys = %v, want none", keys)
	}
}

func TestKeyedContains(t *testing.T) {
	in := primitive.NewObjectID()
	out := primitive.NewObjectID()
	s := Keyed("_id", []primitive.ObjectID{in})

	if !s.Contains(in) {
		t.Error("scope rejected a key it holds")
	}
	if s.Contains(out) {
		t.Error("scope matched a key it does not hold")
	}
	if s.IsEmpty() {
		t.Error("keyed scope reported empty")
	}
}

func TestKeyedFilter(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	s := Keyed("city_id", []primitive.ObjectID{a, b})

	f := s.Filter()
	clause, ok := f["city_id"].(bson.M)
	if !ok {
		t.Fatalf("Filter() = %v, want $in clause on city_id", f)
	}
	keys := clause["$in"].([]primitive.ObjectID)
	if len(keys) != 2 || keys[0] != a || keys[1] != b {
		t.Errorf("$in keys = %v, want [%v %v]", keys, a, b)
	}
}

// A wider scope must contain everything a narrower one does. This is the
// in-memory half of the hierarchy monotonicity guarantee; the builder tests
// cover the store-backed half.
func TestMonotonicity(t *testing.T) {
	narrow := Keyed("inserted_by_id", []primitive.ObjectID{primitive.NewObjectID()})
	wider := Keyed("inserted_by_id", append([]primitive.ObjectID{primitive.NewObjectID()}, narrow.Keys...))
	all := Unrestricted("inserted_by_id")

	for _, k := range narrow.Keys {
		if !wider.Contains(k) {
			t.Error("wider scope missing a narrow key")
		}
		if !all.Contains(k) {
			t.Error("unrestricted scope missing a narrow key")
		}
	}
	for _, k := range wider.Keys {
		if !all.Contains(k) {
			t.Error("unrestricted scope missing a wider key")
		}
	}
}
