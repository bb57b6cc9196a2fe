package repository_test

import (
	"errors"
	"os"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/repository"
)

func TestSchemaDirLoad(t *testing.T) {
	dir := repository.NewSchemaDir(t.TempDir())

	t.Run("missing file is empty, not an error", func(t *testing.T) {
		entries, found, err := dir.Load(types.KindCompositeIndex)
		gt.NoError(t, err)
		gt.False(t, found)
		gt.A(t, entries).Length(0)
	})

	t.Run("array file loads", func(t *testing.T) {
		path := dir.FilePath(types.KindTTLPolicy)
		gt.NoError(t, os.WriteFile(path, []byte(`[{"collectionGroup":"sessions","field":"expiresAt","enabled":true}]`), 0600))

		entries, found, err := dir.Load(types.KindTTLPolicy)
		gt.NoError(t, err)
		gt.True(t, found)
		gt.A(t, entries).Length(1)
		gt.Equal(t, "sessions", entries[0]["collectionGroup"])
	})

	t.Run("non-array file is a structural error", func(t *testing.T) {
		path := dir.FilePath(types.KindFieldIndex)
		gt.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0600))

		_, found, err := dir.Load(types.KindFieldIndex)
		gt.True(t, found)
		gt.True(t, errors.Is(err, errs.ErrStructural))
	})
}

func TestSchemaDirSave(t *testing.T) {
	dir := repository.NewSchemaDir(t.TempDir())

	t.Run("empty listing becomes an empty array", func(t *testing.T) {
		gt.NoError(t, dir.Save(types.KindCompositeIndex, nil))
		data := gt.R1(os.ReadFile(dir.FilePath(types.KindCompositeIndex))).NoError(t)
		gt.Equal(t, "[]\n", string(data))
	})

	t.Run("listing is reindented and round-trips", func(t *testing.T) {
		raw := []byte(`[{"collectionGroup":"sessions","field":"expiresAt","enabled":true}]`)
		gt.NoError(t, dir.Save(types.KindTTLPolicy, raw))

		entries, found, err := dir.Load(types.KindTTLPolicy)
		gt.NoError(t, err)
		gt.True(t, found)
		gt.A(t, entries).Length(1)
	})

	t.Run("invalid JSON is rejected", func(t *testing.T) {
		gt.Error(t, dir.Save(types.KindFieldIndex, []byte("not json")))
	})
}
