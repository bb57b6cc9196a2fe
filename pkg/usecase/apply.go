package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/workspace"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/repository"
	"github.com/secmon-lab/firesync/pkg/service/confirm"
	"github.com/secmon-lab/firesync/pkg/service/executor"
	"github.com/secmon-lab/firesync/pkg/service/planner"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
	"github.com/secmon-lab/firesync/pkg/utils/safe"
)

// ApplyInput selects what to apply. Env alone applies local schemas to the
// environment's live state. FromEnv and ToEnv together apply FromEnv's
// local schemas to ToEnv's live state.
type ApplyInput struct {
	Env     types.EnvName
	FromEnv types.EnvName
	ToEnv   types.EnvName

	SchemaDir   string
	DryRun      bool
	AutoApprove bool
}

func (x ApplyInput) plan() PlanInput {
	return PlanInput{Env: x.Env, FromEnv: x.FromEnv, ToEnv: x.ToEnv, SchemaDir: x.SchemaDir}
}

// source is the environment whose local schemas describe the desired
// state; target is the environment whose live state is mutated.
func (x ApplyInput) source() types.EnvName {
	if x.FromEnv != "" {
		return x.FromEnv
	}
	return x.Env
}

func (x ApplyInput) target() types.EnvName {
	if x.ToEnv != "" {
		return x.ToEnv
	}
	return x.Env
}

// Apply reconciles an environment's live state toward the desired schema
// files. Structural schema errors abort before any instruction runs;
// individual instruction failures are recorded and do not stop the rest.
func (x *UseCases) Apply(ctx context.Context, cfg *workspace.Config, input ApplyInput) error {
	if err := input.plan().validate(); err != nil {
		return err
	}

	runner, cred, cleanup, err := x.runnerFor(ctx, cfg, input.target())
	if err != nil {
		return err
	}
	defer cleanup()

	desired, issues := x.loadLocalSets(ctx, repository.NewSchemaDir(input.plan().desiredDir(cfg, input.source())))
	current, err := x.fetchRemoteSets(ctx, runner)
	if err != nil {
		return err
	}

	plan := planner.Build(desired, current, issues)
	planner.Render(x.stdout, plan)

	if len(issues) > 0 {
		return goerr.New("refusing to apply: schema files contain structural errors",
			goerr.V("count", len(issues)))
	}
	if plan.Empty() {
		return nil
	}

	if !input.DryRun {
		gate := confirm.New(confirm.WithInput(x.stdin), confirm.WithOutput(x.stdout))
		target := confirm.Target{ProjectID: cred.ProjectID, Env: input.target()}
		if !gate.Confirm(ctx, plan, target, input.AutoApprove) {
			return nil
		}
	}

	exec := executor.New(runner, executor.WithDryRun(input.DryRun), executor.WithOutput(x.stdout))
	report := exec.Apply(ctx, plan)

	for _, kind := range types.AllKinds() {
		tally := report.Tally(kind)
		if tally.Attempted == 0 {
			continue
		}
		safe.Fprintf(ctx, x.stdout, "[~] %s: processed %d/%d\n",
			kind.Label(), tally.Succeeded, tally.Attempted)
	}
	// Per-resource failures are reported, not fatal: the next run plans
	// only what is still missing.
	for _, failure := range report.Failures {
		safe.Fprintf(ctx, x.stdout, "[!] %s %s: %s\n",
			failure.Kind.Label(), failure.Target, failure.Diagnostic)
	}
	if report.Failed() {
		logging.From(ctx).Warn("apply completed with failures",
			"failures", len(report.Failures), "duration", report.Duration)
	}
	return nil
}
