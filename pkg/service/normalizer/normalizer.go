// Package normalizer collapses the heterogeneous resource representations
// (flattened local shape, provider-raw listing shape) into the canonical
// records of pkg/domain/model/schema. Malformed entries are skipped with a
// warning, never failing the batch; entries of the provider's built-in
// wildcard group are dropped silently.
package normalizer

import (
	"strings"
)

// WildcardGroup is the provider's synthetic default-index collection group.
// Its entries are not user-manageable and must never reach a diff.
const WildcardGroup = "__default__"

// Stats counts what happened to a batch of raw entries.
type Stats struct {
	Total     int
	Malformed int
	System    int
}

// stringField returns the first non-empty string value among the given
// keys of a loosely structured entry.
func stringField(entry map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := entry[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// pathSegment extracts the value following a segment of a provider
// resource name, e.g. pathSegment(name, "collectionGroups") for
// "projects/p/databases/d/collectionGroups/users/fields/email".
func pathSegment(name, segment string) string {
	parts := strings.Split(name, "/")
	for i, part := range parts {
		if part == segment && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// isRawShape reports whether the entry uses the provider-raw shape,
// detected by a path-like resource name.
func isRawShape(entry map[string]any) bool {
	name := stringField(entry, "name")
	return strings.Contains(name, "/")
}

// mode extracts the index configuration value of a field or index entry:
// a direction (order/direction key) or an array configuration, lower-cased.
func mode(entry map[string]any) string {
	if v := stringField(entry, "arrayConfig"); v != "" {
		return strings.ToLower(v)
	}
	if v := stringField(entry, "order", "direction"); v != "" {
		return strings.ToLower(v)
	}
	return ""
}

func entryList(entry map[string]any, key string) []map[string]any {
	raw, ok := entry[key].([]any)
	if !ok {
		return nil
	}
	list := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			list = append(list, m)
		}
	}
	return list
}
