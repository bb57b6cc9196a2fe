package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/firesync/pkg/domain/types"
)

func TestEnvName(t *testing.T) {
	t.Run("valid names", func(t *testing.T) {
		for _, name := range []string{"dev", "staging", "prod-eu", "env_1", "Prod"} {
			gt.NoError(t, types.EnvName(name).Validate())
		}
	})

	t.Run("invalid names", func(t *testing.T) {
		for _, name := range []string{"", "-dev", "dev env", "dev/eu"} {
			gt.Error(t, types.EnvName(name).Validate())
		}
	})

	t.Run("production detection", func(t *testing.T) {
		gt.True(t, types.EnvName("prod").IsProductionLike())
		gt.True(t, types.EnvName("pre-production").IsProductionLike())
		gt.True(t, types.EnvName("PROD-EU").IsProductionLike())
		gt.False(t, types.EnvName("staging").IsProductionLike())
	})
}

func TestResourceKind(t *testing.T) {
	t.Run("apply order is fixed", func(t *testing.T) {
		gt.Equal(t, []types.ResourceKind{
			types.KindCompositeIndex,
			types.KindFieldIndex,
			types.KindTTLPolicy,
		}, types.AllKinds())
	})

	t.Run("each kind has a distinct schema file", func(t *testing.T) {
		seen := map[string]bool{}
		for _, kind := range types.AllKinds() {
			gt.NoError(t, kind.Validate())
			gt.False(t, seen[kind.SchemaFile()])
			seen[kind.SchemaFile()] = true
		}
	})

	t.Run("unknown kind fails validation", func(t *testing.T) {
		gt.Error(t, types.ResourceKind("nope").Validate())
	})
}
