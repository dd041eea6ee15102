// Package importer is the bulk-import side of voter intake: duplicate
// detection over a candidate batch, and cancellable row-by-row import.
package importer

import (
	"sort"
	"time"

	"github.com/campaignkit/fieldhub/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Row is one candidate voter from the external file-parsing layer.
// Row numbers reported in duplicates are 1-based batch positions.
type Row struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

// DuplicateKind distinguishes where the collision was found.
type DuplicateKind string

const (
	// WithinBatch: a later row repeats an earlier row's key.
	WithinBatch DuplicateKind = "within_batch"
	// InStore: the row's key matches an active stored voter in scope.
	InStore DuplicateKind = "in_store"
)

// Duplicate is one advisory finding. Import proceeds regardless; these exist
// for human review.
type Duplicate struct {
	Kind DuplicateKind `json:"kind"`
	Row  int           `json:"row"`

	// CanonicalRow is set for WithinBatch: the first row with this key.
	CanonicalRow int `json:"canonical_row,omitempty"`

	// The fields below are set for InStore.
	VoterID         primitive.ObjectID `json:"voter_id,omitempty"`
	VoterName       string             `json:"voter_name,omitempty"`
	InsertedByID    primitive.ObjectID `json:"inserted_by_id,omitempty"`
	InsertedByName  string             `json:"inserted_by_name,omitempty"`
	InsertedByEmail string             `json:"inserted_by_email,omitempty"`
	InsertedByRole  string             `json:"inserted_by_role,omitempty"`
	InsertedAt      time.Time          `json:"inserted_at,omitempty"`
}

// key is the normalized identity of a row. Rows missing either half are
// never keyed and never reported.
type key struct {
	phone string
	email string
}

func rowKey(r Row) (key, bool) {
	k := key{phone: normalize.Phone(r.Phone), email: normalize.Email(r.Email)}
	if k.phone == "" || k.email == "" {
		return key{}, false
	}
	return k, true
}

// withinBatch performs the single linear intra-batch pass. The first row for
// each key is canonical; every later row with the same key is a duplicate.
// Pure: same batch in, same findings out.
func withinBatch(rows []Row) []Duplicate {
	firstSeen := make(map[key]int, len(rows))
	var dups []Duplicate

	for i, r := range rows {
		k, ok := rowKey(r)
		if !ok {
			continue
		}
		if canonical, seen := firstSeen[k]; seen {
			dups = append(dups, Duplicate{
				Kind:         WithinBatch,
				Row:          i + 1,
				CanonicalRow: canonical,
			})
			continue
		}
		firstSeen[k] = i + 1
	}
	return dups
}

// distinctKeys collects the batch's distinct normalized phone and email sets
// for the single batched store lookup. Output is sorted for determinism.
func distinctKeys(rows []Row) (phones, emails []string) {
	phoneSet := map[string]struct{}{}
	emailSet := map[string]struct{}{}
	for _, r := range rows {
		k, ok := rowKey(r)
		if !ok {
			continue
		}
		phoneSet[k.phone] = struct{}{}
		emailSet[k.email] = struct{}{}
	}
	for p := range phoneSet {
		phones = append(phones, p)
	}
	for e := range emailSet {
		emails = append(emails, e)
	}
	sort.Strings(phones)
	sort.Strings(emails)
	return phones, emails
}
