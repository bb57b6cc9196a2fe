package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/cli/config"
	"github.com/secmon-lab/firesync/pkg/domain/model/workspace"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"github.com/secmon-lab/firesync/pkg/repository"
	"github.com/secmon-lab/firesync/pkg/utils/ptr"
	"github.com/secmon-lab/firesync/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdEnv() *cli.Command {
	return &cli.Command{
		Name:  "env",
		Usage: "Manage workspace environments",
		Commands: []*cli.Command{
			cmdEnvList(),
			cmdEnvShow(),
			cmdEnvAdd(),
			cmdEnvRemove(),
		},
	}
}

func cmdEnvList() *cli.Command {
	var wsCfg config.Workspace

	return &cli.Command{
		Name:  "list",
		Usage: "List configured environments",
		Flags: wsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := wsCfg.Load()
			if err != nil {
				return err
			}
			names := cfg.EnvNames()
			if len(names) == 0 {
				safe.Fprintf(ctx, os.Stdout, "[~] No environments configured\n")
				return nil
			}
			for _, name := range names {
				env := cfg.Environments[name]
				if desc := ptr.Deref(env.Description); desc != "" {
					safe.Fprintf(ctx, os.Stdout, "%s: %s\n", name, desc)
				} else {
					safe.Fprintf(ctx, os.Stdout, "%s\n", name)
				}
			}
			return nil
		},
	}
}

func cmdEnvShow() *cli.Command {
	var wsCfg config.Workspace

	return &cli.Command{
		Name:      "show",
		Usage:     "Show an environment's configuration",
		ArgsUsage: "<name>",
		Flags:     wsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			name, err := envArg(c)
			if err != nil {
				return err
			}
			cfg, err := wsCfg.Load()
			if err != nil {
				return err
			}
			env, err := cfg.Env(name)
			if err != nil {
				return err
			}

			safe.Fprintf(ctx, os.Stdout, "name: %s\n", name)
			if desc := ptr.Deref(env.Description); desc != "" {
				safe.Fprintf(ctx, os.Stdout, "description: %s\n", desc)
			}
			if env.KeyFile != "" {
				safe.Fprintf(ctx, os.Stdout, "key_file: %s\n", env.KeyFile)
			}
			if env.KeyEnv != "" {
				safe.Fprintf(ctx, os.Stdout, "key_env: %s\n", env.KeyEnv)
			}
			safe.Fprintf(ctx, os.Stdout, "schema_dir: %s\n", cfg.SchemaDir(name))
			return nil
		},
	}
}

func cmdEnvAdd() *cli.Command {
	var wsCfg config.Workspace
	var keyFile, keyEnv, description string

	return &cli.Command{
		Name:      "add",
		Usage:     "Add an environment to the workspace",
		ArgsUsage: "<name>",
		Flags: joinFlags(wsCfg.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:        "key-file",
				Usage:       "Service account key file path, relative to the workspace directory",
				Destination: &keyFile,
			},
			&cli.StringFlag{
				Name:        "key-env",
				Usage:       "Environment variable holding the key (path or inline JSON)",
				Destination: &keyEnv,
			},
			&cli.StringFlag{
				Name:        "description",
				Usage:       "Human readable description",
				Destination: &description,
			},
		}),
		Action: func(ctx context.Context, c *cli.Command) error {
			name, err := envArg(c)
			if err != nil {
				return err
			}
			cfg, err := wsCfg.Load()
			if err != nil {
				return err
			}

			env := &workspace.Environment{
				KeyFile: keyFile,
				KeyEnv:  keyEnv,
			}
			if description != "" {
				env.Description = ptr.Ref(description)
			}
			if err := repository.AddEnvironment(cfg, name, env); err != nil {
				return err
			}

			safe.Fprintf(ctx, os.Stdout, "[+] Added environment: %s\n", name)
			return nil
		},
	}
}

func cmdEnvRemove() *cli.Command {
	var wsCfg config.Workspace

	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove an environment from the workspace (schema files are kept)",
		ArgsUsage: "<name>",
		Flags:     wsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			name, err := envArg(c)
			if err != nil {
				return err
			}
			cfg, err := wsCfg.Load()
			if err != nil {
				return err
			}
			if err := repository.RemoveEnvironment(cfg, name); err != nil {
				return err
			}

			safe.Fprintf(ctx, os.Stdout, "[-] Removed environment: %s\n", name)
			return nil
		},
	}
}

func envArg(c *cli.Command) (types.EnvName, error) {
	name := c.Args().First()
	if name == "" {
		return "", goerr.New("environment name is required")
	}
	if c.Args().Len() > 1 {
		return "", goerr.New("too many arguments", goerr.V("args", c.Args().Slice()))
	}
	return types.EnvName(name), nil
}
