package confirm_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/service/confirm"
)

func somePlan() *schema.Plan {
	plan := &schema.Plan{}
	plan.TTL.Create = append(plan.TTL.Create, schema.TTLPolicy{
		Key:     schema.TTLKey{CollectionGroup: "sessions", FieldPath: "expiresAt"},
		Enabled: true,
	})
	return plan
}

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	target := confirm.Target{ProjectID: "my-project", Env: "dev"}

	t.Run("empty plan declines without prompting", func(t *testing.T) {
		var out bytes.Buffer
		gate := confirm.New(confirm.WithInput(strings.NewReader("y\n")), confirm.WithOutput(&out))
		gt.False(t, gate.Confirm(ctx, &schema.Plan{}, target, false))
		gt.S(t, out.String()).Contains("No changes to apply")
		gt.S(t, out.String()).NotContains("Continue?")
	})

	t.Run("auto-approve proceeds without prompting", func(t *testing.T) {
		var out bytes.Buffer
		gate := confirm.New(confirm.WithInput(strings.NewReader("")), confirm.WithOutput(&out))
		gt.True(t, gate.Confirm(ctx, somePlan(), target, true))
		gt.S(t, out.String()).NotContains("Continue?")
	})

	t.Run("only an explicit affirmative proceeds", func(t *testing.T) {
		for answer, want := range map[string]bool{
			"y\n": true, "yes\n": true, "Y\n": true,
			"n\n": false, "no\n": false, "\n": false, "yep\n": false,
		} {
			var out bytes.Buffer
			gate := confirm.New(confirm.WithInput(strings.NewReader(answer)), confirm.WithOutput(&out))
			gt.Equal(t, want, gate.Confirm(ctx, somePlan(), target, false))
			gt.S(t, out.String()).Contains("Continue? [y/N]: ")
		}
	})

	t.Run("end of input declines", func(t *testing.T) {
		var out bytes.Buffer
		gate := confirm.New(confirm.WithInput(strings.NewReader("")), confirm.WithOutput(&out))
		gt.False(t, gate.Confirm(ctx, somePlan(), target, false))
		gt.S(t, out.String()).Contains("Operation cancelled")
	})

	t.Run("production-like environment warns", func(t *testing.T) {
		var out bytes.Buffer
		gate := confirm.New(confirm.WithInput(strings.NewReader("n\n")), confirm.WithOutput(&out))
		prod := confirm.Target{ProjectID: "my-project", Env: "production"}
		gt.False(t, gate.Confirm(ctx, somePlan(), prod, false))
		gt.S(t, out.String()).Contains("PRODUCTION")
	})

	t.Run("prompt names the project and environment", func(t *testing.T) {
		var out bytes.Buffer
		gate := confirm.New(confirm.WithInput(strings.NewReader("n\n")), confirm.WithOutput(&out))
		gt.False(t, gate.Confirm(ctx, somePlan(), target, false))
		gt.S(t, out.String()).Contains("my-project")
		gt.S(t, out.String()).Contains("dev")
		gt.S(t, out.String()).Contains("1 resources will be created")
	})
}
