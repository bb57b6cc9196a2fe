package normalizer

import (
	"context"
	"strings"

	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

// TTLPolicies normalizes raw TTL policy entries. Both shapes are accepted:
//
//	flattened: {"collectionGroup": "sessions", "field": "expiresAt",
//	            "enabled": true}
//	raw:       {"name": ".../collectionGroups/sessions/fields/expiresAt",
//	            "ttlConfig": {"state": "ACTIVE"}}
//
// State ACTIVE or CREATING maps to enabled. Listed fields carrying no TTL
// configuration are not policies and are skipped.
func TTLPolicies(ctx context.Context, entries []map[string]any) (schema.TTLSet, Stats) {
	logger := logging.From(ctx)
	set := schema.TTLSet{}
	stats := Stats{Total: len(entries)}

	for _, entry := range entries {
		policy, status := ttlFrom(entry)
		switch status {
		case entrySystem:
			stats.System++
			continue
		case entryMalformed:
			stats.Malformed++
			logger.Warn("skipping malformed TTL policy entry",
				logging.ErrAttr(errs.ErrMalformedResource), "entry", entry)
			continue
		}
		set[policy.Key] = policy
	}

	return set, stats
}

func ttlFrom(entry map[string]any) (schema.TTLPolicy, entryStatus) {
	var policy schema.TTLPolicy

	if isRawShape(entry) {
		name := stringField(entry, "name")
		policy.Key.CollectionGroup = pathSegment(name, "collectionGroups")
		policy.Key.FieldPath = pathSegment(name, "fields")

		ttlConfig, ok := entry["ttlConfig"].(map[string]any)
		if !ok {
			return schema.TTLPolicy{}, entryMalformed
		}
		state := strings.ToUpper(stringField(ttlConfig, "state"))
		policy.Enabled = state == "ACTIVE" || state == "CREATING"
	} else {
		policy.Key.CollectionGroup = stringField(entry, "collectionGroup")
		policy.Key.FieldPath = stringField(entry, "field", "fieldPath")
		enabled, ok := entry["enabled"].(bool)
		if !ok {
			return schema.TTLPolicy{}, entryMalformed
		}
		policy.Enabled = enabled
	}

	if policy.Key.CollectionGroup == WildcardGroup {
		return schema.TTLPolicy{}, entrySystem
	}
	if policy.Key.CollectionGroup == "" || policy.Key.FieldPath == "" {
		return schema.TTLPolicy{}, entryMalformed
	}

	return policy, entryOK
}
