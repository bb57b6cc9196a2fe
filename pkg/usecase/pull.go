package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/workspace"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/repository"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
	"github.com/secmon-lab/firesync/pkg/utils/safe"
)

// Pull snapshots an environment's live state into its local schema files,
// overwriting whatever is there.
func (x *UseCases) Pull(ctx context.Context, cfg *workspace.Config, name types.EnvName) error {
	runner, _, cleanup, err := x.runnerFor(ctx, cfg, name)
	if err != nil {
		return err
	}
	defer cleanup()

	dir := repository.NewSchemaDir(cfg.SchemaDir(name))
	if err := dir.Ensure(); err != nil {
		return err
	}

	for _, kind := range types.AllKinds() {
		raw, err := runner.List(ctx, listCommand(kind))
		if err != nil {
			return goerr.Wrap(err, "failed to list live resources",
				goerr.V("env", name), goerr.V("kind", kind))
		}
		if err := dir.Save(kind, raw); err != nil {
			return err
		}
		safe.Fprintf(ctx, x.stdout, "[~] Saved %s\n", dir.FilePath(kind))
	}
	return nil
}

// PullAll snapshots every configured environment. One environment failing
// does not stop the others; the first failure is reported at the end.
func (x *UseCases) PullAll(ctx context.Context, cfg *workspace.Config) error {
	var failed []string
	for _, name := range cfg.EnvNames() {
		env := types.EnvName(name)
		safe.Fprintf(ctx, x.stdout, "[~] Pulling environment: %s\n", env)
		if err := x.Pull(ctx, cfg, env); err != nil {
			logging.From(ctx).Error("failed to pull environment",
				"env", env, logging.ErrAttr(err))
			safe.Fprintf(ctx, x.stdout, "[!] Failed to pull %s: %v\n", env, err)
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return goerr.New("some environments failed to pull", goerr.V("envs", failed))
	}
	return nil
}
