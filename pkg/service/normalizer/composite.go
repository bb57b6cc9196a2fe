package normalizer

import (
	"context"

	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

// CompositeIndexes normalizes raw composite index entries. Both shapes are
// accepted:
//
//	flattened: {"collectionGroup": "orders", "queryScope": "COLLECTION",
//	            "fields": [{"fieldPath": "status", "direction": "ASCENDING"}]}
//	raw:       {"name": ".../collectionGroups/orders/indexes/CICA...",
//	            "queryScope": "COLLECTION", "fields": [...]}
func CompositeIndexes(ctx context.Context, entries []map[string]any) (schema.CompositeSet, Stats) {
	logger := logging.From(ctx)
	set := schema.CompositeSet{}
	stats := Stats{Total: len(entries)}

	for _, entry := range entries {
		idx, ok := compositeFrom(entry)
		if !ok {
			stats.Malformed++
			logger.Warn("skipping malformed composite index entry",
				logging.ErrAttr(errs.ErrMalformedResource), "entry", entry)
			continue
		}
		if idx.Key.CollectionGroup == WildcardGroup {
			stats.System++
			continue
		}
		if prev, ok := set[idx.Key]; ok {
			logger.Warn("duplicate composite index definition, keeping the last one",
				"key", idx.Key.String(),
				"dropped", prev.FieldSpec(),
				"kept", idx.FieldSpec(),
			)
		}
		set[idx.Key] = idx
	}

	return set, stats
}

func compositeFrom(entry map[string]any) (schema.CompositeIndex, bool) {
	var idx schema.CompositeIndex

	if isRawShape(entry) {
		idx.Name = stringField(entry, "name")
	}
	if group := stringField(entry, "collectionGroup"); group != "" {
		idx.Key.CollectionGroup = group
	} else if idx.Name != "" {
		idx.Key.CollectionGroup = pathSegment(idx.Name, "collectionGroups")
	}
	if idx.Key.CollectionGroup == "" {
		return schema.CompositeIndex{}, false
	}

	scope := stringField(entry, "queryScope")
	if scope == "" {
		scope = string(schema.QueryScopeCollection)
	}
	idx.Key.QueryScope = schema.QueryScope(scope)

	fields := entryList(entry, "fields")
	if len(fields) == 0 {
		return schema.CompositeIndex{}, false
	}
	for _, f := range fields {
		path := stringField(f, "fieldPath")
		value := mode(f)
		if path == "" || value == "" {
			return schema.CompositeIndex{}, false
		}
		idx.Fields = append(idx.Fields, schema.IndexField{FieldPath: path, Mode: value})
	}

	// The provider appends a trailing __name__ field to every listed
	// index; it is not part of the user-authored sequence.
	if last := len(idx.Fields) - 1; last >= 0 && idx.Fields[last].FieldPath == "__name__" {
		idx.Fields = idx.Fields[:last]
	}
	if len(idx.Fields) == 0 {
		return schema.CompositeIndex{}, false
	}

	return idx, true
}
