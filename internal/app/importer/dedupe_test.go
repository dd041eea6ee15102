package importer

import (
	"reflect"
	"testing"
)

func TestWithinBatchFlagsRepeatedKey(t *testing.T) {
	rows := []Row{
		{FullName: "A", Phone: "0501111111", Email: "a@x.com"},
		{FullName: "A again", Phone: "0501111111", Email: "a@x.com"},
		{FullName: "B", Phone: "0502222222", Email: "b@x.com"},
	}

	dups := withinBatch(rows)
	if len(dups) != 1 {
		t.Fatalf("got %d duplicates, want 1: %+v", len(dups), dups)
	}
	d := dups[0]
	if d.Kind != WithinBatch || d.Row != 2 || d.CanonicalRow != 1 {
		t.Errorf("duplicate = %+v, want within_batch row 2 canonical 1", d)
	}
}

func TestWithinBatchSkipsRowsMissingPhoneOrEmail(t *testing.T) {
	rows := []Row{
		{Phone: "", Email: "a@x.com"},
		{Phone: "", Email: "a@x.com"},
		{Phone: "0501111111", Email: ""},
		{Phone: "0501111111", Email: ""},
	}
	if dups := withinBatch(rows); len(dups) != 0 {
		t.Errorf("rows without a full key were flagged: %+v", dups)
	}
}

func TestWithinBatchNormalizesBeforeKeying(t *testing.T) {
	rows := []Row{
		{Phone: "050-111-1111", Email: "A@X.com"},
		{Phone: "0501111111", Email: "a@x.com "},
	}
	dups := withinBatch(rows)
	if len(dups) != 1 {
		t.Fatalf("normalized-equal rows not flagged: %+v", dups)
	}
}

// Same phone with different emails is a different key: the pair is the key,
// not either half alone.
func TestWithinBatchKeyIsThePair(t *testing.T) {
	rows := []Row{
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "0501111111", Email: "b@x.com"},
		{Phone: "0502222222", Email: "a@x.com"},
	}
	if dups := withinBatch(rows); len(dups) != 0 {
		t.Errorf("distinct pairs were flagged: %+v", dups)
	}
}

// duplicates == (rows with a full key) - (distinct keys among them)
func TestWithinBatchCountingProperty(t *testing.T) {
	rows := []Row{
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "0502222222", Email: "b@x.com"},
		{Phone: "0502222222", Email: "b@x.com"},
		{Phone: "0503333333", Email: "c@x.com"},
		{Phone: "", Email: "skipped@x.com"},
	}
	keyed := 6
	distinct := 3

	dups := withinBatch(rows)
	if len(dups) != keyed-distinct {
		t.Errorf("got %d duplicates, want %d", len(dups), keyed-distinct)
	}
}

func TestWithinBatchIsIdempotent(t *testing.T) {
	rows := []Row{
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "0502222222", Email: "b@x.com"},
	}
	first := withinBatch(rows)
	second := withinBatch(rows)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs over the same batch differ: %+v vs %+v", first, second)
	}
}

func TestDistinctKeysSortedAndDeduplicated(t *testing.T) {
	rows := []Row{
		{Phone: "0502222222", Email: "b@x.com"},
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "0501111111", Email: "a@x.com"},
		{Phone: "", Email: "nokey@x.com"},
	}

	phones, emails := distinctKeys(rows)
	wantPhones := []string{"0501111111", "0502222222"}
	wantEmails := []string{"a@x.com", "b@x.com"}
	if !reflect.DeepEqual(phones, wantPhones) {
		t.Errorf("phones = %v, want %v", phones, wantPhones)
	}
	if !reflect.DeepEqual(emails, wantEmails) {
		t.Errorf("emails = %v, want %v", emails, wantEmails)
	}
}
