package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/adapter/gcloud"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/domain/model/workspace"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/repository"
	"github.com/secmon-lab/firesync/pkg/service/planner"
	"github.com/secmon-lab/firesync/pkg/utils/safe"
)

// PlanInput selects what to compare. Env alone plans local schemas against
// the environment's live state. FromEnv and ToEnv together plan one
// environment's local schemas against another's, without touching GCP.
// SchemaDir overrides where the desired schemas are read from.
type PlanInput struct {
	Env     types.EnvName
	FromEnv types.EnvName
	ToEnv   types.EnvName

	SchemaDir string
}

func (x PlanInput) desiredDir(cfg *workspace.Config, env types.EnvName) string {
	if x.SchemaDir != "" {
		return x.SchemaDir
	}
	return cfg.SchemaDir(env)
}

func (x PlanInput) migration() bool {
	return x.FromEnv != "" || x.ToEnv != ""
}

func (x PlanInput) validate() error {
	if x.migration() {
		if x.FromEnv == "" || x.ToEnv == "" {
			return goerr.New("migration mode requires both --from and --to")
		}
		if x.Env != "" {
			return goerr.New("--env cannot be combined with --from/--to")
		}
		return nil
	}
	if x.Env == "" {
		return goerr.New("environment is required")
	}
	return nil
}

// Plan renders the instructions that Apply would execute, without running
// any of them. It returns an error when a schema file is structurally
// broken so CI runs fail loudly.
func (x *UseCases) Plan(ctx context.Context, cfg *workspace.Config, input PlanInput) error {
	if err := input.validate(); err != nil {
		return err
	}

	var desired, current *schema.Sets
	var issues []schema.KindIssue

	if input.migration() {
		for _, env := range []types.EnvName{input.FromEnv, input.ToEnv} {
			if _, err := cfg.Env(env); err != nil {
				return err
			}
		}
		var more []schema.KindIssue
		desired, issues = x.loadLocalSets(ctx, repository.NewSchemaDir(input.desiredDir(cfg, input.FromEnv)))
		current, more = x.loadLocalSets(ctx, repository.NewSchemaDir(cfg.SchemaDir(input.ToEnv)))
		issues = append(issues, more...)
	} else {
		runner, _, cleanup, err := x.runnerFor(ctx, cfg, input.Env)
		if err != nil {
			return err
		}
		defer cleanup()

		desired, issues = x.loadLocalSets(ctx, repository.NewSchemaDir(input.desiredDir(cfg, input.Env)))
		current, err = x.fetchRemoteSets(ctx, runner)
		if err != nil {
			return err
		}
	}

	plan := planner.Build(desired, current, issues)
	planner.Render(x.stdout, plan)

	if len(issues) > 0 {
		return goerr.New("schema files contain structural errors", goerr.V("count", len(issues)))
	}
	return nil
}

// runnerFor resolves an environment's credential and builds a runner for
// it. The returned cleanup removes any materialized temp key file.
func (x *UseCases) runnerFor(ctx context.Context, cfg *workspace.Config, name types.EnvName) (gcloud.Runner, *repository.Credential, func(), error) {
	env, err := cfg.Env(name)
	if err != nil {
		return nil, nil, nil, err
	}
	cred, err := repository.ResolveCredential(env, cfg.Dir())
	if err != nil {
		return nil, nil, nil, goerr.Wrap(err, "failed to resolve credential", goerr.V("env", name))
	}
	cleanup := func() { safe.Remove(ctx, cred.Cleanup) }
	return x.newRunner(cred), cred, cleanup, nil
}
