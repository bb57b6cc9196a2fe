package schema

import (
	"strings"
)

// QueryScope is the scope a composite index applies to.
type QueryScope string

const (
	QueryScopeCollection      QueryScope = "COLLECTION"
	QueryScopeCollectionGroup QueryScope = "COLLECTION_GROUP"
)

// CompositeKey identifies what a composite index is about. Two indexes with
// the same collection group and query scope describe the same resource.
type CompositeKey struct {
	CollectionGroup string
	QueryScope      QueryScope
}

func (x CompositeKey) String() string {
	return x.CollectionGroup + "/" + string(x.QueryScope)
}

// IndexField is one entry of a composite index field sequence. Mode holds
// the lower-cased direction (ascending, descending) or array configuration
// (contains).
type IndexField struct {
	FieldPath string
	Mode      string
}

// Canonical returns the comparison form of the field entry.
func (x IndexField) Canonical() string {
	return x.FieldPath + ":" + x.Mode
}

// CompositeIndex is the canonical record of a composite index. Field order
// is significant: [a, b] and [b, a] are different indexes.
type CompositeIndex struct {
	Key    CompositeKey
	Fields []IndexField

	// Name is the provider resource name, present only on records built
	// from a remote listing. Deletion targets it; equality ignores it.
	Name string
}

// Equal reports whether two composite indexes have identical field
// sequences, verbatim order included.
func (x CompositeIndex) Equal(other CompositeIndex) bool {
	if x.Key != other.Key || len(x.Fields) != len(other.Fields) {
		return false
	}
	for i := range x.Fields {
		if x.Fields[i] != other.Fields[i] {
			return false
		}
	}
	return true
}

// FieldSpec renders the field sequence for plan output.
func (x CompositeIndex) FieldSpec() string {
	parts := make([]string, len(x.Fields))
	for i, f := range x.Fields {
		parts[i] = f.Canonical()
	}
	return strings.Join(parts, " | ")
}

func (x CompositeIndex) Describe() string {
	return x.Key.CollectionGroup + " " + string(x.Key.QueryScope) + " " + x.FieldSpec()
}

// CompositeSet is the canonical set of composite indexes, keyed uniquely.
type CompositeSet map[CompositeKey]CompositeIndex
