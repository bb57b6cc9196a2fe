package schema

import "strconv"

// TTLKey identifies the field a TTL policy applies to.
type TTLKey struct {
	CollectionGroup string
	FieldPath       string
}

func (x TTLKey) String() string {
	return "(" + x.CollectionGroup + ", " + x.FieldPath + ")"
}

// TTLPolicy is the canonical record of a TTL policy. Only the enabled
// state is significant; a remote state of ACTIVE or CREATING maps to
// enabled, anything absent counts as disabled.
type TTLPolicy struct {
	Key     TTLKey
	Enabled bool
}

func (x TTLPolicy) Describe() string {
	return "TTL: " + x.Key.String() + " => " + strconv.FormatBool(x.Enabled)
}

// TTLSet is the canonical set of TTL policies.
type TTLSet map[TTLKey]TTLPolicy
