// Package diff computes the change set between two canonical resource sets
// of one kind. All functions are pure and deterministic: canonical sets are
// unordered, so output follows the sorted canonical key order, desired-side
// scan first.
package diff

import (
	"sort"

	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
)

// Composite compares composite index sets. Bodies are equal only when the
// field sequences match verbatim, order included.
func Composite(desired, current schema.CompositeSet) schema.ChangeSet[schema.CompositeIndex] {
	var cs schema.ChangeSet[schema.CompositeIndex]

	for _, key := range sortedCompositeKeys(desired) {
		want := desired[key]
		have, ok := current[key]
		switch {
		case !ok:
			cs.Create = append(cs.Create, want)
		case !want.Equal(have):
			cs.Update = append(cs.Update, schema.Updated[schema.CompositeIndex]{Old: have, New: want})
		}
	}

	for _, key := range sortedCompositeKeys(current) {
		if _, ok := desired[key]; !ok {
			cs.Delete = append(cs.Delete, current[key])
		}
	}

	return cs
}

// Fields compares single-field index sets. The remote operation grain is
// one configuration at a time, so differences decompose into per-
// configuration create and delete instructions; no update is ever emitted.
func Fields(desired, current schema.FieldSet) schema.ChangeSet[schema.FieldIndex] {
	var cs schema.ChangeSet[schema.FieldIndex]

	for _, rec := range sortedFieldRecords(desired) {
		if !current.Has(rec) {
			cs.Create = append(cs.Create, rec)
		}
	}
	for _, rec := range sortedFieldRecords(current) {
		if !desired.Has(rec) {
			cs.Delete = append(cs.Delete, rec)
		}
	}

	return cs
}

// TTL compares TTL policy sets. Only a change in enabled-state is
// significant; an absent entry counts as disabled, so a desired-but-absent
// disabled policy is a no-op rather than a create.
func TTL(desired, current schema.TTLSet) schema.ChangeSet[schema.TTLPolicy] {
	var cs schema.ChangeSet[schema.TTLPolicy]

	for _, key := range sortedTTLKeys(desired) {
		want := desired[key]
		have, ok := current[key]
		switch {
		case !ok:
			if want.Enabled {
				cs.Create = append(cs.Create, want)
			}
		case want.Enabled != have.Enabled:
			cs.Update = append(cs.Update, schema.Updated[schema.TTLPolicy]{Old: have, New: want})
		}
	}

	for _, key := range sortedTTLKeys(current) {
		if _, ok := desired[key]; !ok && current[key].Enabled {
			cs.Delete = append(cs.Delete, current[key])
		}
	}

	return cs
}

func sortedCompositeKeys(set schema.CompositeSet) []schema.CompositeKey {
	keys := make([]schema.CompositeKey, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

func sortedFieldRecords(set schema.FieldSet) []schema.FieldIndex {
	records := make([]schema.FieldIndex, 0, len(set))
	for rec := range set {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.CollectionGroup != b.CollectionGroup {
			return a.CollectionGroup < b.CollectionGroup
		}
		if a.FieldPath != b.FieldPath {
			return a.FieldPath < b.FieldPath
		}
		return a.Mode < b.Mode
	})
	return records
}

func sortedTTLKeys(set schema.TTLSet) []schema.TTLKey {
	keys := make([]schema.TTLKey, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
