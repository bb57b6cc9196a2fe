package schema

// FieldIndex is the canonical record of one single-field index
// configuration. A raw entry carrying several enabled configurations
// expands into one record per configuration, matching the remote operation
// grain (one configuration at a time).
type FieldIndex struct {
	CollectionGroup string
	FieldPath       string
	Mode            string
}

func (x FieldIndex) Describe() string {
	return "(" + x.CollectionGroup + ", " + x.FieldPath + ") => " + x.Mode
}

// FieldSet is the canonical set of single-field index configurations. The
// record itself is the key: per-configuration granularity means a diff is
// pure set membership, never an in-place update.
type FieldSet map[FieldIndex]struct{}

func (s FieldSet) Add(x FieldIndex) {
	s[x] = struct{}{}
}

func (s FieldSet) Has(x FieldIndex) bool {
	_, ok := s[x]
	return ok
}
