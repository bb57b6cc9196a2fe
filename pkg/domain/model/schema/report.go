package schema

import (
	"time"

	"github.com/secmon-lab/firesync/pkg/domain/types"
)

// Failure records a single apply instruction that the remote side rejected.
// Execution continues past it; the report is how the failure surfaces.
type Failure struct {
	Kind       types.ResourceKind
	Target     string
	Diagnostic string
}

// KindTally is the attempted and succeeded instruction count of one kind.
type KindTally struct {
	Succeeded int
	Attempted int
}

// ApplyReport aggregates the outcome of walking one plan. It is owned by
// the call chain that produced it and never retained past one invocation.
type ApplyReport struct {
	StartedAt time.Time
	Duration  time.Duration

	tallies  map[types.ResourceKind]*KindTally
	Failures []Failure
}

func NewApplyReport(startedAt time.Time) *ApplyReport {
	return &ApplyReport{
		StartedAt: startedAt,
		tallies:   map[types.ResourceKind]*KindTally{},
	}
}

func (x *ApplyReport) tally(kind types.ResourceKind) *KindTally {
	t, ok := x.tallies[kind]
	if !ok {
		t = &KindTally{}
		x.tallies[kind] = t
	}
	return t
}

// Succeed counts one successfully applied instruction.
func (x *ApplyReport) Succeed(kind types.ResourceKind) {
	t := x.tally(kind)
	t.Attempted++
	t.Succeeded++
}

// Fail counts one failed instruction and records its diagnostic.
func (x *ApplyReport) Fail(kind types.ResourceKind, target, diagnostic string) {
	t := x.tally(kind)
	t.Attempted++
	x.Failures = append(x.Failures, Failure{
		Kind:       kind,
		Target:     target,
		Diagnostic: diagnostic,
	})
}

// Tally returns the counts of one kind. Kinds with no instructions report
// zero attempts.
func (x *ApplyReport) Tally(kind types.ResourceKind) KindTally {
	if t, ok := x.tallies[kind]; ok {
		return *t
	}
	return KindTally{}
}

// Failed reports whether any instruction failed.
func (x *ApplyReport) Failed() bool {
	return len(x.Failures) > 0
}
