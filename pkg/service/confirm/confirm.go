// Package confirm implements the safety gate in front of destructive
// application. Input and output are injected so the gate never reads
// ambient process state.
package confirm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

// Target identifies what an apply would mutate.
type Target struct {
	ProjectID string
	Env       types.EnvName
}

type Gate struct {
	in  io.Reader
	out io.Writer
}

type Option func(*Gate)

func WithInput(r io.Reader) Option {
	return func(x *Gate) {
		x.in = r
	}
}

func WithOutput(w io.Writer) Option {
	return func(x *Gate) {
		x.out = w
	}
}

func New(opts ...Option) *Gate {
	gate := &Gate{
		in:  os.Stdin,
		out: os.Stdout,
	}
	for _, opt := range opts {
		opt(gate)
	}
	return gate
}

var warnColor = color.New(color.FgRed, color.Bold)

// Confirm decides whether an apply may proceed. An empty plan declines
// without prompting; auto-approve proceeds without prompting; otherwise a
// single line is read and only an explicit affirmative token proceeds.
// End-of-input counts as a decline, not an error.
func (x *Gate) Confirm(ctx context.Context, plan *schema.Plan, target Target, autoApprove bool) bool {
	summary := plan.Summary()
	if summary.Total() == 0 {
		fmt.Fprintln(x.out, "[~] No changes to apply")
		return false
	}

	if autoApprove {
		return true
	}

	fmt.Fprintf(x.out, "\n[!] This will modify Firestore in GCP project: %s\n", target.ProjectID)
	fmt.Fprintf(x.out, "    Environment: %s\n", target.Env)
	if summary.Create > 0 {
		fmt.Fprintf(x.out, "    [+] %d resources will be created\n", summary.Create)
	}
	if summary.Update > 0 {
		fmt.Fprintf(x.out, "    [~] %d resources will be updated\n", summary.Update)
	}
	if summary.Delete > 0 {
		fmt.Fprintf(x.out, "    [-] %d resources will be deleted\n", summary.Delete)
	}

	if target.Env.IsProductionLike() {
		fmt.Fprintf(x.out, "\n    %s\n", warnColor.Sprint("WARNING: This is a PRODUCTION environment!"))
	}

	fmt.Fprintf(x.out, "\nContinue? [y/N]: ")

	line, err := bufio.NewReader(x.in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(x.out, "\n[!] Operation cancelled")
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	approved := answer == "y" || answer == "yes"
	if !approved {
		logging.From(ctx).Info("apply declined", "env", target.Env, "answer", answer)
	}
	return approved
}
