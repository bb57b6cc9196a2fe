package types

import "github.com/m-mizutani/goerr/v2"

// ResourceKind identifies one of the managed Firestore schema resource kinds.
type ResourceKind string

const (
	KindCompositeIndex ResourceKind = "composite_index"
	KindFieldIndex     ResourceKind = "field_index"
	KindTTLPolicy      ResourceKind = "ttl_policy"
)

// AllKinds returns the resource kinds in apply order. Composite indexes go
// first so that field overrides and TTL policies never race an index build
// on the same collection group.
func AllKinds() []ResourceKind {
	return []ResourceKind{KindCompositeIndex, KindFieldIndex, KindTTLPolicy}
}

func (x ResourceKind) String() string {
	return string(x)
}

// Label returns the human readable name used in rendered plans and reports.
func (x ResourceKind) Label() string {
	switch x {
	case KindCompositeIndex:
		return "Composite Indexes"
	case KindFieldIndex:
		return "Single-Field Indexes"
	case KindTTLPolicy:
		return "TTL Policies"
	default:
		return string(x)
	}
}

// SchemaFile returns the JSON file name holding the kind's local schema.
func (x ResourceKind) SchemaFile() string {
	switch x {
	case KindCompositeIndex:
		return "composite-indexes.json"
	case KindFieldIndex:
		return "field-indexes.json"
	case KindTTLPolicy:
		return "ttl-policies.json"
	default:
		return ""
	}
}

func (x ResourceKind) Validate() error {
	switch x {
	case KindCompositeIndex, KindFieldIndex, KindTTLPolicy:
		return nil
	default:
		return goerr.New("unknown resource kind", goerr.V("kind", x))
	}
}
