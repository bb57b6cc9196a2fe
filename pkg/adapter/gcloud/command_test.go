package gcloud_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/firesync/pkg/adapter/gcloud"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
)

func TestCreateCompositeIndex(t *testing.T) {
	cmd := gcloud.CreateCompositeIndex(schema.CompositeIndex{
		Key: schema.CompositeKey{CollectionGroup: "orders", QueryScope: schema.QueryScopeCollection},
		Fields: []schema.IndexField{
			{FieldPath: "status", Mode: "ascending"},
			{FieldPath: "tags", Mode: "contains"},
		},
	})
	gt.Equal(t, []string{
		"firestore", "indexes", "composite", "create",
		"--collection-group=orders",
		"--query-scope=COLLECTION",
		"--field-config=order=ascending,field-path=status",
		"--field-config=array-config=contains,field-path=tags",
	}, cmd.Args())
}

func TestDeleteCompositeIndex(t *testing.T) {
	t.Run("targets the provider index ID", func(t *testing.T) {
		cmd := gt.R1(gcloud.DeleteCompositeIndex(schema.CompositeIndex{
			Key:  schema.CompositeKey{CollectionGroup: "orders", QueryScope: schema.QueryScopeCollection},
			Name: "projects/p/databases/(default)/collectionGroups/orders/indexes/CICAgJju",
		})).NoError(t)
		gt.Equal(t, []string{"firestore", "indexes", "composite", "delete", "CICAgJju", "--quiet"}, cmd.Args())
	})

	t.Run("fails without a resource name", func(t *testing.T) {
		_, err := gcloud.DeleteCompositeIndex(schema.CompositeIndex{
			Key: schema.CompositeKey{CollectionGroup: "orders", QueryScope: schema.QueryScopeCollection},
		})
		gt.Error(t, err)
	})
}

func TestFieldIndexCommands(t *testing.T) {
	rec := schema.FieldIndex{CollectionGroup: "users", FieldPath: "tags", Mode: "contains"}

	create := gcloud.CreateFieldIndex(rec)
	gt.S(t, create.String()).Contains("--index=array-config=contains")

	remove := gcloud.DeleteFieldIndex(rec)
	gt.S(t, remove.String()).Contains("--remove-index=array-config=contains")
	gt.S(t, remove.String()).Contains("--collection-group=users")
}

func TestUpdateTTLPolicy(t *testing.T) {
	key := schema.TTLKey{CollectionGroup: "sessions", FieldPath: "expiresAt"}

	enable := gcloud.UpdateTTLPolicy(schema.TTLPolicy{Key: key, Enabled: true})
	gt.S(t, enable.String()).Contains("--enable-ttl")

	disable := gcloud.UpdateTTLPolicy(schema.TTLPolicy{Key: key})
	gt.S(t, disable.String()).Contains("--disable-ttl")
}

func TestClassify(t *testing.T) {
	execErr := errors.New("exit status 1")

	t.Run("no error is success", func(t *testing.T) {
		outcome := gcloud.Classify(nil, []byte("Created index.\n"))
		gt.Equal(t, gcloud.StatusSucceeded, outcome.Status)
		gt.Equal(t, "Created index.", outcome.Diagnostic)
	})

	t.Run("already exists is recognized in both spellings", func(t *testing.T) {
		for _, output := range []string{
			"ERROR: (gcloud.firestore.indexes) ALREADY_EXISTS: index already exists",
			"ERROR: the resource already exists",
		} {
			outcome := gcloud.Classify(execErr, []byte(output))
			gt.Equal(t, gcloud.StatusAlreadyExists, outcome.Status)
		}
	})

	t.Run("permission denied is recognized", func(t *testing.T) {
		outcome := gcloud.Classify(execErr, []byte("ERROR: PERMISSION_DENIED: missing datastore.indexes.create"))
		gt.Equal(t, gcloud.StatusPermissionDenied, outcome.Status)
	})

	t.Run("anything else is a plain failure", func(t *testing.T) {
		outcome := gcloud.Classify(execErr, []byte("ERROR: deadline exceeded"))
		gt.Equal(t, gcloud.StatusFailed, outcome.Status)
	})

	t.Run("empty output falls back to the exec error", func(t *testing.T) {
		outcome := gcloud.Classify(execErr, nil)
		gt.Equal(t, gcloud.StatusFailed, outcome.Status)
		gt.Equal(t, "exit status 1", outcome.Diagnostic)
	})
}
