package gcloud

import (
	"context"
	"strings"
)

// Status classifies the outcome of one administration command.
type Status int

const (
	StatusSucceeded Status = iota + 1
	// StatusAlreadyExists means the resource was already in the requested
	// state. For creates this is an idempotent no-op, not an error.
	StatusAlreadyExists
	StatusPermissionDenied
	StatusFailed
)

func (x Status) String() string {
	switch x {
	case StatusSucceeded:
		return "succeeded"
	case StatusAlreadyExists:
		return "already_exists"
	case StatusPermissionDenied:
		return "permission_denied"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one command, with the raw diagnostic
// text for reporting.
type Outcome struct {
	Status     Status
	Diagnostic string
}

// Command is one gcloud argument vector, without the binary name and
// without project/credential plumbing (the runner adds those).
type Command struct {
	args []string
}

func NewCommand(args ...string) Command {
	return Command{args: args}
}

func (x Command) Args() []string {
	return x.args
}

func (x Command) String() string {
	return "gcloud " + strings.Join(x.args, " ")
}

// Runner is the narrow collaborator interface for the external
// administration tool. Implementations must execute one command at a time
// and block until completion.
type Runner interface {
	// Execute runs a mutating command and classifies its outcome. It never
	// returns an error: every failure mode is an Outcome.
	Execute(ctx context.Context, cmd Command) Outcome

	// List runs a read-only listing command and returns its JSON output.
	List(ctx context.Context, cmd Command) ([]byte, error)
}
