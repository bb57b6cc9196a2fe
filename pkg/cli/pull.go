package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/cli/config"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPull() *cli.Command {
	var wsCfg config.Workspace
	var env string
	var all bool

	return &cli.Command{
		Name:  "pull",
		Usage: "Snapshot live Firestore state into local schema files",
		Flags: joinFlags(wsCfg.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "env",
				Aliases:     []string{"e"},
				Sources:     cli.EnvVars("FIRESYNC_ENV"),
				Usage:       "Environment to pull",
				Destination: &env,
			},
			&cli.BoolFlag{
				Name:        "all",
				Usage:       "Pull every configured environment",
				Destination: &all,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			if all == (env != "") {
				return goerr.New("exactly one of --env and --all is required")
			}
			cfg, err := wsCfg.Load()
			if err != nil {
				return err
			}
			uc := usecase.New()
			if all {
				return uc.PullAll(ctx, cfg)
			}
			return uc.Pull(ctx, cfg, types.EnvName(env))
		},
	}
}
