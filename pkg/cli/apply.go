package cli

import (
	"context"

	"github.com/secmon-lab/firesync/pkg/cli/config"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdApply() *cli.Command {
	var wsCfg config.Workspace
	var env, fromEnv, toEnv, schemaDir string
	var dryRun, autoApprove bool

	return &cli.Command{
		Name:  "apply",
		Usage: "Reconcile live Firestore state toward the local schema files",
		Flags: joinFlags(wsCfg.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "env",
				Aliases:     []string{"e"},
				Sources:     cli.EnvVars("FIRESYNC_ENV"),
				Usage:       "Environment to reconcile",
				Destination: &env,
			},
			&cli.StringFlag{
				Name:        "from",
				Usage:       "Migration mode: environment providing the desired schemas",
				Destination: &fromEnv,
			},
			&cli.StringFlag{
				Name:        "to",
				Usage:       "Migration mode: environment whose live state is reconciled",
				Destination: &toEnv,
			},
			&cli.StringFlag{
				Name:        "schema-dir",
				Usage:       "Read desired schemas from this directory instead of the environment's",
				Destination: &schemaDir,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Print the instructions without executing them",
				Destination: &dryRun,
			},
			&cli.BoolFlag{
				Name:        "auto-approve",
				Aliases:     []string{"y"},
				Usage:       "Skip the confirmation prompt",
				Destination: &autoApprove,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := wsCfg.Load()
			if err != nil {
				return err
			}
			return usecase.New().Apply(ctx, cfg, usecase.ApplyInput{
				Env:         types.EnvName(env),
				FromEnv:     types.EnvName(fromEnv),
				ToEnv:       types.EnvName(toEnv),
				SchemaDir:   schemaDir,
				DryRun:      dryRun,
				AutoApprove: autoApprove,
			})
		},
	}
}
