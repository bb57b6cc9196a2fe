package normalizer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/service/normalizer"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

func entries(t *testing.T, raw string) []map[string]any {
	t.Helper()
	var list []map[string]any
	gt.NoError(t, json.Unmarshal([]byte(raw), &list))
	return list
}

func TestCompositeIndexes(t *testing.T) {
	ctx := context.Background()

	t.Run("flattened and raw shapes produce the same record", func(t *testing.T) {
		flattened := entries(t, `[{
			"collectionGroup": "orders",
			"queryScope": "COLLECTION",
			"fields": [
				{"fieldPath": "status", "direction": "ASCENDING"},
				{"fieldPath": "createdAt", "order": "DESCENDING"}
			]
		}]`)
		raw := entries(t, `[{
			"name": "projects/p/databases/(default)/collectionGroups/orders/indexes/CICAgJju",
			"queryScope": "COLLECTION",
			"fields": [
				{"fieldPath": "status", "order": "ASCENDING"},
				{"fieldPath": "createdAt", "order": "DESCENDING"},
				{"fieldPath": "__name__", "order": "DESCENDING"}
			]
		}]`)

		local, stats := normalizer.CompositeIndexes(ctx, flattened)
		gt.Equal(t, 0, stats.Malformed)
		remote, _ := normalizer.CompositeIndexes(ctx, raw)

		key := schema.CompositeKey{CollectionGroup: "orders", QueryScope: schema.QueryScopeCollection}
		gt.True(t, local[key].Equal(remote[key]))
		gt.Equal(t, "", local[key].Name)
		gt.S(t, remote[key].Name).Contains("CICAgJju")
	})

	t.Run("trailing __name__ is stripped, interior is kept", func(t *testing.T) {
		raw := entries(t, `[{
			"name": "projects/p/databases/(default)/collectionGroups/logs/indexes/X1",
			"fields": [
				{"fieldPath": "__name__", "order": "ASCENDING"},
				{"fieldPath": "ts", "order": "DESCENDING"},
				{"fieldPath": "__name__", "order": "ASCENDING"}
			]
		}]`)
		set, _ := normalizer.CompositeIndexes(ctx, raw)
		key := schema.CompositeKey{CollectionGroup: "logs", QueryScope: schema.QueryScopeCollection}
		gt.A(t, set[key].Fields).Length(2)
		gt.Equal(t, "__name__", set[key].Fields[0].FieldPath)
	})

	t.Run("missing query scope defaults to COLLECTION", func(t *testing.T) {
		set, _ := normalizer.CompositeIndexes(ctx, entries(t, `[{
			"collectionGroup": "users",
			"fields": [{"fieldPath": "email", "order": "ASCENDING"}]
		}]`))
		key := schema.CompositeKey{CollectionGroup: "users", QueryScope: schema.QueryScopeCollection}
		gt.True(t, len(set[key].Fields) == 1)
	})

	t.Run("malformed entries are counted and skipped", func(t *testing.T) {
		set, stats := normalizer.CompositeIndexes(ctx, entries(t, `[
			{"collectionGroup": "a"},
			{"fields": [{"fieldPath": "x", "order": "ASCENDING"}]},
			{"collectionGroup": "b", "fields": [{"fieldPath": "x"}]},
			{"collectionGroup": "c", "fields": [{"fieldPath": "x", "order": "ASCENDING"}]}
		]`))
		gt.Equal(t, 4, stats.Total)
		gt.Equal(t, 3, stats.Malformed)
		gt.Equal(t, 1, len(set))
	})

	t.Run("duplicate keys keep the last definition and warn", func(t *testing.T) {
		var buf bytes.Buffer
		logCtx := logging.With(ctx, slog.New(slog.NewTextHandler(&buf, nil)))

		set, stats := normalizer.CompositeIndexes(logCtx, entries(t, `[
			{"collectionGroup": "orders", "fields": [{"fieldPath": "status", "order": "ASCENDING"}]},
			{"collectionGroup": "orders", "fields": [{"fieldPath": "createdAt", "order": "DESCENDING"}]}
		]`))
		gt.Equal(t, 0, stats.Malformed)
		gt.Equal(t, 1, len(set))

		key := schema.CompositeKey{CollectionGroup: "orders", QueryScope: schema.QueryScopeCollection}
		gt.Equal(t, "createdAt:descending", set[key].FieldSpec())
		gt.S(t, buf.String()).Contains("duplicate composite index definition")
	})

	t.Run("skipped entries log the malformed marker", func(t *testing.T) {
		var buf bytes.Buffer
		logCtx := logging.With(ctx, slog.New(slog.NewTextHandler(&buf, nil)))

		_, stats := normalizer.CompositeIndexes(logCtx, entries(t, `[{"collectionGroup": "a"}]`))
		gt.Equal(t, 1, stats.Malformed)
		gt.S(t, buf.String()).Contains(errs.ErrMalformedResource.Error())
	})

	t.Run("wildcard group is dropped silently", func(t *testing.T) {
		set, stats := normalizer.CompositeIndexes(ctx, entries(t, `[{
			"collectionGroup": "__default__",
			"fields": [{"fieldPath": "x", "order": "ASCENDING"}]
		}]`))
		gt.Equal(t, 0, stats.Malformed)
		gt.Equal(t, 1, stats.System)
		gt.Equal(t, 0, len(set))
	})
}

func TestFieldIndexes(t *testing.T) {
	ctx := context.Background()

	t.Run("one entry expands into one record per configuration", func(t *testing.T) {
		set, stats := normalizer.FieldIndexes(ctx, entries(t, `[{
			"collectionGroupId": "users",
			"fieldPath": "tags",
			"indexes": [
				{"order": "ASCENDING"},
				{"order": "DESCENDING"},
				{"arrayConfig": "CONTAINS"}
			]
		}]`))
		gt.Equal(t, 0, stats.Malformed)
		gt.Equal(t, 3, len(set))
		gt.True(t, set.Has(schema.FieldIndex{CollectionGroup: "users", FieldPath: "tags", Mode: "contains"}))
		gt.True(t, set.Has(schema.FieldIndex{CollectionGroup: "users", FieldPath: "tags", Mode: "ascending"}))
	})

	t.Run("raw shape nests the mode one level down", func(t *testing.T) {
		set, _ := normalizer.FieldIndexes(ctx, entries(t, `[{
			"name": "projects/p/databases/(default)/collectionGroups/users/fields/email",
			"indexConfig": {
				"indexes": [{"fields": [{"fieldPath": "email", "order": "ASCENDING"}]}]
			}
		}]`))
		gt.True(t, set.Has(schema.FieldIndex{CollectionGroup: "users", FieldPath: "email", Mode: "ascending"}))
	})

	t.Run("wildcard group is excluded even when raw", func(t *testing.T) {
		set, stats := normalizer.FieldIndexes(ctx, entries(t, `[{
			"name": "projects/p/databases/(default)/collectionGroups/__default__/fields/*",
			"indexConfig": {"indexes": [{"fields": [{"fieldPath": "*", "order": "ASCENDING"}]}]}
		}]`))
		gt.Equal(t, 1, stats.System)
		gt.Equal(t, 0, len(set))
	})

	t.Run("entry without group or field is malformed", func(t *testing.T) {
		_, stats := normalizer.FieldIndexes(ctx, entries(t, `[{"fieldPath": "email"}]`))
		gt.Equal(t, 1, stats.Malformed)
	})
}

func TestTTLPolicies(t *testing.T) {
	ctx := context.Background()

	t.Run("raw state maps to enabled", func(t *testing.T) {
		set, _ := normalizer.TTLPolicies(ctx, entries(t, `[
			{"name": "projects/p/databases/(default)/collectionGroups/sessions/fields/expiresAt",
			 "ttlConfig": {"state": "ACTIVE"}},
			{"name": "projects/p/databases/(default)/collectionGroups/jobs/fields/doneAt",
			 "ttlConfig": {"state": "CREATING"}},
			{"name": "projects/p/databases/(default)/collectionGroups/drafts/fields/savedAt",
			 "ttlConfig": {"state": "NEEDS_REPAIR"}}
		]`))
		gt.True(t, set[schema.TTLKey{CollectionGroup: "sessions", FieldPath: "expiresAt"}].Enabled)
		gt.True(t, set[schema.TTLKey{CollectionGroup: "jobs", FieldPath: "doneAt"}].Enabled)
		gt.False(t, set[schema.TTLKey{CollectionGroup: "drafts", FieldPath: "savedAt"}].Enabled)
	})

	t.Run("raw field without ttlConfig is not a policy", func(t *testing.T) {
		set, stats := normalizer.TTLPolicies(ctx, entries(t, `[{
			"name": "projects/p/databases/(default)/collectionGroups/users/fields/email"
		}]`))
		gt.Equal(t, 1, stats.Malformed)
		gt.Equal(t, 0, len(set))
	})

	t.Run("flattened shape requires a boolean enabled", func(t *testing.T) {
		set, stats := normalizer.TTLPolicies(ctx, entries(t, `[
			{"collectionGroup": "sessions", "field": "expiresAt", "enabled": true},
			{"collectionGroup": "sessions", "fieldPath": "altField", "enabled": false},
			{"collectionGroup": "sessions", "field": "broken"}
		]`))
		gt.Equal(t, 1, stats.Malformed)
		gt.Equal(t, 2, len(set))
		gt.True(t, set[schema.TTLKey{CollectionGroup: "sessions", FieldPath: "expiresAt"}].Enabled)
		gt.False(t, set[schema.TTLKey{CollectionGroup: "sessions", FieldPath: "altField"}].Enabled)
	})
}

// Canonical sets are keyed, so the order entries appear in a schema file or
// a provider listing must not change the result.
func TestOrderIndependence(t *testing.T) {
	ctx := context.Background()

	t.Run("composite indexes", func(t *testing.T) {
		forward := entries(t, `[
			{"collectionGroup": "orders", "fields": [{"fieldPath": "status", "order": "ASCENDING"}]},
			{"collectionGroup": "users", "queryScope": "COLLECTION_GROUP",
			 "fields": [{"fieldPath": "email", "order": "DESCENDING"}]}
		]`)
		reversed := []map[string]any{forward[1], forward[0]}

		a, _ := normalizer.CompositeIndexes(ctx, forward)
		b, _ := normalizer.CompositeIndexes(ctx, reversed)
		gt.Equal(t, a, b)
	})

	t.Run("field indexes", func(t *testing.T) {
		forward := entries(t, `[
			{"collectionGroupId": "users", "fieldPath": "tags",
			 "indexes": [{"arrayConfig": "CONTAINS"}, {"order": "ASCENDING"}]},
			{"collectionGroupId": "users", "fieldPath": "email",
			 "indexes": [{"order": "DESCENDING"}]}
		]`)
		reversed := []map[string]any{forward[1], forward[0]}

		a, _ := normalizer.FieldIndexes(ctx, forward)
		b, _ := normalizer.FieldIndexes(ctx, reversed)
		gt.Equal(t, a, b)
	})

	t.Run("ttl policies", func(t *testing.T) {
		forward := entries(t, `[
			{"collectionGroup": "sessions", "field": "expiresAt", "enabled": true},
			{"collectionGroup": "jobs", "field": "doneAt", "enabled": false}
		]`)
		reversed := []map[string]any{forward[1], forward[0]}

		a, _ := normalizer.TTLPolicies(ctx, forward)
		b, _ := normalizer.TTLPolicies(ctx, reversed)
		gt.Equal(t, a, b)
	})
}
