// Package executor walks an approved plan and issues one idempotent remote
// operation per instruction, isolating partial failures: one failing
// resource never aborts the batch.
package executor

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/secmon-lab/firesync/pkg/adapter/gcloud"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/utils/clock"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

type Executor struct {
	runner gcloud.Runner
	out    io.Writer
	dryRun bool
}

type Option func(*Executor)

// WithDryRun renders every command instead of executing it.
func WithDryRun(dryRun bool) Option {
	return func(x *Executor) {
		x.dryRun = dryRun
	}
}

func WithOutput(w io.Writer) Option {
	return func(x *Executor) {
		x.out = w
	}
}

func New(runner gcloud.Runner, opts ...Option) *Executor {
	exec := &Executor{
		runner: runner,
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(exec)
	}
	return exec
}

// Apply executes the plan in the fixed kind order composite indexes →
// field indexes → TTL policies, and within each kind in create → update →
// delete order. Individual failures are recorded in the report and
// execution continues.
func (x *Executor) Apply(ctx context.Context, plan *schema.Plan) *schema.ApplyReport {
	report := schema.NewApplyReport(clock.Now(ctx))
	defer func() {
		report.Duration = clock.Since(ctx, report.StartedAt)
	}()

	x.applyComposite(ctx, plan.Composite, report)
	x.applyFields(ctx, plan.Fields, report)
	x.applyTTL(ctx, plan.TTL, report)

	return report
}

func (x *Executor) applyComposite(ctx context.Context, cs schema.ChangeSet[schema.CompositeIndex], report *schema.ApplyReport) {
	kind := types.KindCompositeIndex

	for _, idx := range cs.Create {
		x.run(ctx, report, kind, idx.Describe(), gcloud.CreateCompositeIndex(idx))
	}

	// The provider has no in-place composite update: realize each update
	// as delete-old then create-new, counted as one instruction.
	for _, change := range cs.Update {
		deleteCmd, err := gcloud.DeleteCompositeIndex(change.Old)
		if err != nil {
			report.Fail(kind, change.Old.Describe(), err.Error())
			continue
		}
		if x.dryRun {
			x.render(deleteCmd)
			x.render(gcloud.CreateCompositeIndex(change.New))
			report.Succeed(kind)
			continue
		}
		if outcome := x.runner.Execute(ctx, deleteCmd); !applied(outcome, false) {
			report.Fail(kind, change.Old.Describe(), outcome.Diagnostic)
			continue
		}
		outcome := x.runner.Execute(ctx, gcloud.CreateCompositeIndex(change.New))
		x.record(ctx, report, kind, change.New.Describe(), outcome, true)
	}

	for _, idx := range cs.Delete {
		cmd, err := gcloud.DeleteCompositeIndex(idx)
		if err != nil {
			report.Fail(kind, idx.Describe(), err.Error())
			continue
		}
		x.runDelete(ctx, report, kind, idx.Describe(), cmd)
	}
}

func (x *Executor) applyFields(ctx context.Context, cs schema.ChangeSet[schema.FieldIndex], report *schema.ApplyReport) {
	kind := types.KindFieldIndex

	for _, rec := range cs.Create {
		x.run(ctx, report, kind, rec.Describe(), gcloud.CreateFieldIndex(rec))
	}
	for _, rec := range cs.Delete {
		x.runDelete(ctx, report, kind, rec.Describe(), gcloud.DeleteFieldIndex(rec))
	}
}

func (x *Executor) applyTTL(ctx context.Context, cs schema.ChangeSet[schema.TTLPolicy], report *schema.ApplyReport) {
	kind := types.KindTTLPolicy

	for _, policy := range cs.Create {
		x.run(ctx, report, kind, policy.Describe(), gcloud.UpdateTTLPolicy(policy))
	}
	for _, change := range cs.Update {
		x.run(ctx, report, kind, change.New.Describe(), gcloud.UpdateTTLPolicy(change.New))
	}
	for _, policy := range cs.Delete {
		disabled := schema.TTLPolicy{Key: policy.Key, Enabled: false}
		x.runDelete(ctx, report, kind, policy.Describe(), gcloud.UpdateTTLPolicy(disabled))
	}
}

// run submits one create/update instruction. already-exists counts as an
// idempotent success.
func (x *Executor) run(ctx context.Context, report *schema.ApplyReport, kind types.ResourceKind, target string, cmd gcloud.Command) {
	if x.dryRun {
		x.render(cmd)
		report.Succeed(kind)
		return
	}
	outcome := x.runner.Execute(ctx, cmd)
	x.record(ctx, report, kind, target, outcome, true)
}

// runDelete submits one delete instruction. already-exists is not an
// expected outcome for deletes and counts as a failure.
func (x *Executor) runDelete(ctx context.Context, report *schema.ApplyReport, kind types.ResourceKind, target string, cmd gcloud.Command) {
	if x.dryRun {
		x.render(cmd)
		report.Succeed(kind)
		return
	}
	outcome := x.runner.Execute(ctx, cmd)
	x.record(ctx, report, kind, target, outcome, false)
}

func (x *Executor) record(ctx context.Context, report *schema.ApplyReport, kind types.ResourceKind, target string, outcome gcloud.Outcome, create bool) {
	if applied(outcome, create) {
		if outcome.Status == gcloud.StatusAlreadyExists {
			logging.From(ctx).Info("resource already exists, skipping", "kind", kind, "target", target)
		}
		report.Succeed(kind)
		return
	}

	logging.From(ctx).Warn("remote operation failed",
		"kind", kind,
		"target", target,
		"status", outcome.Status.String(),
	)
	report.Fail(kind, target, outcome.Diagnostic)
}

func applied(outcome gcloud.Outcome, create bool) bool {
	if outcome.Status == gcloud.StatusSucceeded {
		return true
	}
	return create && outcome.Status == gcloud.StatusAlreadyExists
}

func (x *Executor) render(cmd gcloud.Command) {
	fmt.Fprintf(x.out, "[dry-run] %s\n", cmd.String())
}
