package normalizer

import (
	"context"

	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

// FieldIndexes normalizes raw single-field index entries. Both shapes are
// accepted:
//
//	flattened: {"collectionGroupId": "users", "fieldPath": "email",
//	            "indexes": [{"order": "ASCENDING"}, {"arrayConfig": "CONTAINS"}]}
//	raw:       {"name": ".../collectionGroups/users/fields/email",
//	            "indexConfig": {"indexes": [{"fields": [{"fieldPath": "email",
//	            "order": "ASCENDING"}]}]}}
//
// A single entry expands into one canonical record per enabled
// configuration; every configuration is preserved.
func FieldIndexes(ctx context.Context, entries []map[string]any) (schema.FieldSet, Stats) {
	logger := logging.From(ctx)
	set := schema.FieldSet{}
	stats := Stats{Total: len(entries)}

	for _, entry := range entries {
		records, status := fieldIndexesFrom(entry)
		switch status {
		case entrySystem:
			stats.System++
			continue
		case entryMalformed:
			stats.Malformed++
			logger.Warn("skipping malformed field index entry",
				logging.ErrAttr(errs.ErrMalformedResource), "entry", entry)
			continue
		}
		for _, rec := range records {
			set.Add(rec)
		}
	}

	return set, stats
}

type entryStatus int

const (
	entryOK entryStatus = iota
	entryMalformed
	entrySystem
)

func fieldIndexesFrom(entry map[string]any) ([]schema.FieldIndex, entryStatus) {
	var group, fieldPath string
	var configs []map[string]any

	if isRawShape(entry) {
		name := stringField(entry, "name")
		group = pathSegment(name, "collectionGroups")
		fieldPath = pathSegment(name, "fields")
		if indexConfig, ok := entry["indexConfig"].(map[string]any); ok {
			configs = entryList(indexConfig, "indexes")
		}
	} else {
		group = stringField(entry, "collectionGroupId")
		fieldPath = stringField(entry, "fieldPath")
		configs = entryList(entry, "indexes")
	}

	if group == WildcardGroup {
		return nil, entrySystem
	}
	if group == "" || fieldPath == "" {
		return nil, entryMalformed
	}

	var records []schema.FieldIndex
	for _, cfg := range configs {
		value := mode(cfg)
		if value == "" {
			// raw index configs nest the value one level down
			if fields := entryList(cfg, "fields"); len(fields) > 0 {
				value = mode(fields[0])
			}
		}
		if value == "" {
			continue
		}
		records = append(records, schema.FieldIndex{
			CollectionGroup: group,
			FieldPath:       fieldPath,
			Mode:            value,
		})
	}

	return records, entryOK
}
