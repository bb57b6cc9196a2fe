package config

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/workspace"
	"github.com/secmon-lab/firesync/pkg/repository"
	"github.com/urfave/cli/v3"
)

// Workspace locates the workspace config. With no explicit path the
// workspace is found by walking up from the working directory.
type Workspace struct {
	path string
}

func (x *Workspace) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "workspace",
			Category:    "workspace",
			Aliases:     []string{"w"},
			Sources:     cli.EnvVars("FIRESYNC_WORKSPACE"),
			Usage:       "Path to the workspace directory (default: search upward from the working directory)",
			Destination: &x.path,
		},
	}
}

// ConfigPath resolves the config.yaml path without loading it.
func (x *Workspace) ConfigPath() (string, error) {
	if x.path != "" {
		candidate := filepath.Join(x.path, workspace.FileName)
		if info, err := os.Stat(candidate); err != nil || info.IsDir() {
			return "", goerr.New("workspace config not found under given path",
				goerr.V("path", x.path))
		}
		return candidate, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", goerr.Wrap(err, "failed to get working directory")
	}
	return repository.FindWorkspace(cwd)
}

// Load resolves and parses the workspace config.
func (x *Workspace) Load() (*workspace.Config, error) {
	path, err := x.ConfigPath()
	if err != nil {
		return nil, err
	}
	return repository.LoadWorkspace(path)
}
