package cli

import (
	"context"
	"os"

	"github.com/secmon-lab/firesync/pkg/repository"
	"github.com/secmon-lab/firesync/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdInit() *cli.Command {
	var baseDir string

	return &cli.Command{
		Name:  "init",
		Usage: "Create a new workspace with a commented config template",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"d"},
				Usage:       "Directory to create the workspace in",
				Value:       ".",
				Destination: &baseDir,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			path, err := repository.InitWorkspace(baseDir)
			if err != nil {
				return err
			}
			safe.Fprintf(ctx, os.Stdout, "[+] Created workspace: %s\n", path)
			safe.Fprintf(ctx, os.Stdout, "[~] Edit the config to add environments, or run 'firesync env add'\n")
			return nil
		},
	}
}
