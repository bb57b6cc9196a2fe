package cli

import (
	"context"

	"github.com/secmon-lab/firesync/pkg/cli/config"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPlan() *cli.Command {
	var wsCfg config.Workspace
	var env, fromEnv, toEnv, schemaDir string

	return &cli.Command{
		Name:  "plan",
		Usage: "Show what apply would change, without changing anything",
		Flags: joinFlags(wsCfg.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "env",
				Aliases:     []string{"e"},
				Sources:     cli.EnvVars("FIRESYNC_ENV"),
				Usage:       "Environment to compare against",
				Destination: &env,
			},
			&cli.StringFlag{
				Name:        "from",
				Usage:       "Migration mode: environment providing the desired schemas",
				Destination: &fromEnv,
			},
			&cli.StringFlag{
				Name:        "to",
				Usage:       "Migration mode: environment whose local schemas are compared",
				Destination: &toEnv,
			},
			&cli.StringFlag{
				Name:        "schema-dir",
				Usage:       "Read desired schemas from this directory instead of the environment's",
				Destination: &schemaDir,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := wsCfg.Load()
			if err != nil {
				return err
			}
			return usecase.New().Plan(ctx, cfg, usecase.PlanInput{
				Env:       types.EnvName(env),
				FromEnv:   types.EnvName(fromEnv),
				ToEnv:     types.EnvName(toEnv),
				SchemaDir: schemaDir,
			})
		},
	}
}
