// Package scope builds visibility predicates from a resolved actor.
//
// A Scope is a value, not a query: the builder does the store lookups once,
// and the result is checked in memory (Contains) or turned into a filter
// (Filter) as many times as needed. The zero Scope is empty and matches
// nothing, which is the safe default for every unanchored or unknown actor.
package scope

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope is the set of rows an actor may see for one entity kind.
//
// All true means unrestricted. Otherwise the scope is "Field must be one of
// Keys"; an empty Keys set matches nothing.
type Scope struct {
	All   bool
	Field string
	Keys  []primitive.ObjectID
}

// Unrestricted returns the scope that matches everything.
func Unrestricted(field string) Scope {
	return Scope{All: true, Field: field}
}

// Empty returns the scope that matches nothing.
func Empty(field string) Scope {
	return Scope{Field: field}
}

// Keyed returns a scope restricted to the given keys.
func Keyed(field string, keys []primitive.ObjectID) Scope {
	return Scope{Field: field, Keys: keys}
}

// IsEmpty reports whether the scope matches nothing.
func (s Scope) IsEmpty() bool {
	return !s.All && len(s.Keys) == 0
}

// Contains reports whether a row keyed by id falls inside the scope.
func (s Scope) Contains(id primitive.ObjectID) bool {
	if s.All {
		return true
	}
	for _, k := range s.Keys {
		if k == id {
			return true
		}
	}
	return false
}

// Filter renders the scope as a mongo filter on its field. An empty scope
// yields `{field: {$in: []}}`, which matches no documents; callers never need
// to special-case emptiness before querying.
func (s Scope) Filter() bson.M {
	if s.All {
		return bson.M{}
	}
	keys := s.Keys
	if keys == nil {
		keys = []primitive.ObjectID{}
	}
	return bson.M{s.Field: bson.M{"$in": keys}}
}
