// Package usecase wires the schema repositories, the normalizer, the diff
// planner and the gcloud adapter into the operations the CLI exposes.
package usecase

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/adapter/gcloud"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/repository"
	"github.com/secmon-lab/firesync/pkg/service/normalizer"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
	"github.com/secmon-lab/firesync/pkg/utils/safe"
)

// RunnerFactory builds a gcloud runner for a resolved credential. Tests
// substitute a factory returning a scripted fake.
type RunnerFactory func(cred *repository.Credential) gcloud.Runner

type UseCases struct {
	stdout    io.Writer
	stdin     io.Reader
	newRunner RunnerFactory
}

type Option func(*UseCases)

func WithStdout(w io.Writer) Option {
	return func(x *UseCases) {
		x.stdout = w
	}
}

func WithStdin(r io.Reader) Option {
	return func(x *UseCases) {
		x.stdin = r
	}
}

func WithRunnerFactory(f RunnerFactory) Option {
	return func(x *UseCases) {
		x.newRunner = f
	}
}

func New(opts ...Option) *UseCases {
	uc := &UseCases{
		stdout: os.Stdout,
		stdin:  os.Stdin,
		newRunner: func(cred *repository.Credential) gcloud.Runner {
			return gcloud.NewCLI(cred.ProjectID, gcloud.WithKeyFile(cred.KeyPath))
		},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func listCommand(kind types.ResourceKind) gcloud.Command {
	switch kind {
	case types.KindCompositeIndex:
		return gcloud.ListCompositeIndexes()
	case types.KindFieldIndex:
		return gcloud.ListFieldIndexes()
	default:
		return gcloud.ListTTLPolicies()
	}
}

func normalize(ctx context.Context, sets *schema.Sets, kind types.ResourceKind, entries []map[string]any) {
	var stats normalizer.Stats
	switch kind {
	case types.KindCompositeIndex:
		sets.Composite, stats = normalizer.CompositeIndexes(ctx, entries)
	case types.KindFieldIndex:
		sets.Fields, stats = normalizer.FieldIndexes(ctx, entries)
	case types.KindTTLPolicy:
		sets.TTL, stats = normalizer.TTLPolicies(ctx, entries)
	}
	if stats.Malformed > 0 {
		logging.From(ctx).Warn("skipped malformed schema entries",
			"kind", kind, "count", stats.Malformed)
	}
}

// loadLocalSets reads and normalizes all three schema files from dir. A
// missing file is reported and contributes an empty set; a structurally
// broken file becomes a KindIssue for the plan.
func (x *UseCases) loadLocalSets(ctx context.Context, dir *repository.SchemaDir) (*schema.Sets, []schema.KindIssue) {
	sets := schema.NewSets()
	var issues []schema.KindIssue
	for _, kind := range types.AllKinds() {
		entries, found, err := dir.Load(kind)
		if err != nil {
			issues = append(issues, schema.KindIssue{Kind: kind, Err: err})
			continue
		}
		if !found {
			safe.Fprintf(ctx, x.stdout, "[!] Local %s not found, treating as empty\n", dir.FilePath(kind))
			continue
		}
		normalize(ctx, sets, kind, entries)
	}
	return sets, issues
}

// fetchRemoteSets lists and normalizes live state for all three kinds. A
// listing failure is fatal: diffing against a partial view would produce
// destructive instructions.
func (x *UseCases) fetchRemoteSets(ctx context.Context, runner gcloud.Runner) (*schema.Sets, error) {
	sets := schema.NewSets()
	for _, kind := range types.AllKinds() {
		raw, err := runner.List(ctx, listCommand(kind))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list live resources", goerr.V("kind", kind))
		}
		var entries []map[string]any
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, goerr.Wrap(err, "listing output is not a JSON array", goerr.V("kind", kind))
		}
		normalize(ctx, sets, kind, entries)
	}
	return sets, nil
}
