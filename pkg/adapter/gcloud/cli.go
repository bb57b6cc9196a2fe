package gcloud

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/utils/logging"
)

// CLI runs administration commands through the gcloud binary. Invocations
// are strictly sequential; every call blocks until the command completes.
type CLI struct {
	bin      string
	project  string
	database string
	keyFile  string
}

type Option func(*CLI)

// WithBinary overrides the gcloud binary path.
func WithBinary(bin string) Option {
	return func(x *CLI) {
		x.bin = bin
	}
}

// WithDatabase targets a named database instead of (default).
func WithDatabase(database string) Option {
	return func(x *CLI) {
		x.database = database
	}
}

// WithKeyFile points gcloud at a service account key file.
func WithKeyFile(path string) Option {
	return func(x *CLI) {
		x.keyFile = path
	}
}

func NewCLI(projectID string, opts ...Option) *CLI {
	cli := &CLI{
		bin:     "gcloud",
		project: projectID,
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

func (x *CLI) buildArgs(cmd Command) []string {
	args := append([]string{}, cmd.Args()...)
	args = append(args, "--project="+x.project)
	if x.database != "" {
		args = append(args, "--database="+x.database)
	}
	return args
}

func (x *CLI) command(ctx context.Context, cmd Command) *exec.Cmd {
	// #nosec G204
	c := exec.CommandContext(ctx, x.bin, x.buildArgs(cmd)...)
	c.Env = os.Environ()
	if x.keyFile != "" {
		c.Env = append(c.Env, "GOOGLE_APPLICATION_CREDENTIALS="+x.keyFile)
	}
	return c
}

func (x *CLI) Execute(ctx context.Context, cmd Command) Outcome {
	logging.From(ctx).Debug("executing gcloud command", "args", cmd.Args())

	output, err := x.command(ctx, cmd).CombinedOutput()
	return classify(err, output)
}

func (x *CLI) List(ctx context.Context, cmd Command) ([]byte, error) {
	logging.From(ctx).Debug("listing via gcloud", "args", cmd.Args())

	c := x.command(ctx, cmd)
	output, err := c.Output()
	if err != nil {
		var stderr string
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		return nil, goerr.Wrap(err, "gcloud listing failed",
			goerr.V("args", cmd.Args()),
			goerr.V("stderr", stderr),
		)
	}
	return output, nil
}

// classify maps an exec result to the outcome taxonomy. gcloud reports
// idempotency conflicts and authorization failures only through its
// diagnostic text, so classification is substring-based.
func classify(err error, output []byte) Outcome {
	diagnostic := strings.TrimSpace(string(output))
	if err == nil {
		return Outcome{Status: StatusSucceeded, Diagnostic: diagnostic}
	}

	lower := strings.ToLower(diagnostic)
	switch {
	case strings.Contains(lower, "already_exists") || strings.Contains(lower, "already exists"):
		return Outcome{Status: StatusAlreadyExists, Diagnostic: diagnostic}
	case strings.Contains(lower, "permission_denied") || strings.Contains(lower, "permission denied"):
		return Outcome{Status: StatusPermissionDenied, Diagnostic: diagnostic}
	default:
		if diagnostic == "" {
			diagnostic = err.Error()
		}
		return Outcome{Status: StatusFailed, Diagnostic: diagnostic}
	}
}
