package schema

import (
	"github.com/secmon-lab/firesync/pkg/domain/types"
)

// Updated pairs the current and intended body of an in-place change.
type Updated[T any] struct {
	Old T
	New T
}

// ChangeSet holds the create/update/delete instructions for one resource
// kind. Slices keep the deterministic order the diff engine emitted.
type ChangeSet[T any] struct {
	Create []T
	Update []Updated[T]
	Delete []T
}

func (x ChangeSet[T]) Count() int {
	return len(x.Create) + len(x.Update) + len(x.Delete)
}

func (x ChangeSet[T]) Empty() bool {
	return x.Count() == 0
}

// Sets bundles the canonical sets of all three resource kinds from one
// source (local schema directory or remote listing).
type Sets struct {
	Composite CompositeSet
	Fields    FieldSet
	TTL       TTLSet
}

func NewSets() *Sets {
	return &Sets{
		Composite: CompositeSet{},
		Fields:    FieldSet{},
		TTL:       TTLSet{},
	}
}

// KindIssue records a structural failure scoped to one resource kind, such
// as a schema file that is not a JSON array. The kind's diff is dropped but
// the rest of the plan stands.
type KindIssue struct {
	Kind types.ResourceKind
	Err  error
}

// Summary aggregates instruction counts across kinds for the confirmation
// gate.
type Summary struct {
	Create int
	Update int
	Delete int
}

func (x Summary) Total() int {
	return x.Create + x.Update + x.Delete
}

// Plan is the aggregate of change sets across all resource kinds. It is
// built once per invocation, optionally confirmed, consumed once by the
// apply executor and then discarded.
type Plan struct {
	Composite ChangeSet[CompositeIndex]
	Fields    ChangeSet[FieldIndex]
	TTL       ChangeSet[TTLPolicy]
	Issues    []KindIssue
}

func (x *Plan) Summary() Summary {
	return Summary{
		Create: len(x.Composite.Create) + len(x.Fields.Create) + len(x.TTL.Create),
		Update: len(x.Composite.Update) + len(x.Fields.Update) + len(x.TTL.Update),
		Delete: len(x.Composite.Delete) + len(x.Fields.Delete) + len(x.TTL.Delete),
	}
}

func (x *Plan) Empty() bool {
	return x.Summary().Total() == 0
}
