package repository

import (
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/model/workspace"
	"github.com/secmon-lab/firesync/pkg/domain/types"
	"gopkg.in/yaml.v3"
)

// FindWorkspace searches for the workspace config by walking up from the
// start directory, like git does for its repository root. Returns the
// config.yaml path.
func FindWorkspace(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve start directory", goerr.V("start", start))
	}

	for {
		candidate := filepath.Join(dir, workspace.DirName, workspace.FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", goerr.Wrap(errs.ErrWorkspaceNotFound, "no workspace config found",
				goerr.V("searched_from", start),
				goerr.V("expected", filepath.Join(workspace.DirName, workspace.FileName)),
			)
		}
		dir = parent
	}
}

// LoadWorkspace parses and validates the workspace config at path.
func LoadWorkspace(path string) (*workspace.Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(errs.ErrWorkspaceNotFound, "workspace config does not exist",
				goerr.V("path", path))
		}
		return nil, goerr.Wrap(err, "failed to read workspace config", goerr.V("path", path))
	}

	var cfg workspace.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse workspace config", goerr.V("path", path))
	}
	cfg.SetPath(path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveWorkspace writes the config back to its own path.
func SaveWorkspace(cfg *workspace.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal workspace config")
	}
	if err := os.WriteFile(cfg.Path(), data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write workspace config", goerr.V("path", cfg.Path()))
	}
	return nil
}

const configTemplate = `# firesync workspace configuration
#
# Each environment maps a name to a service account credential:
#   key_file: path to a key file, relative to this directory
#   key_env:  name of an environment variable holding the key
#             (either a file path or inline JSON)
version: 1
environments: {}
  # production:
  #   key_file: keys/prod.json
  #   description: "Production environment"
  # staging:
  #   key_env: GCP_STAGING_KEY
settings:
  schema_dir: schemas
`

// InitWorkspace creates the workspace directory with a config.yaml
// template and an empty schemas directory. Fails if the workspace already
// exists.
func InitWorkspace(baseDir string) (string, error) {
	dir := filepath.Join(baseDir, workspace.DirName)
	configPath := filepath.Join(dir, workspace.FileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", goerr.Wrap(errs.ErrWorkspaceExists, "workspace already exists",
			goerr.V("path", configPath))
	}

	if err := os.MkdirAll(filepath.Join(dir, workspace.DefaultSchemaDir), 0750); err != nil {
		return "", goerr.Wrap(err, "failed to create workspace directory", goerr.V("dir", dir))
	}
	if err := os.WriteFile(configPath, []byte(configTemplate), 0600); err != nil {
		return "", goerr.Wrap(err, "failed to write workspace config", goerr.V("path", configPath))
	}

	return configPath, nil
}

// AddEnvironment registers a new environment and persists the config.
func AddEnvironment(cfg *workspace.Config, name types.EnvName, env *workspace.Environment) error {
	if err := name.Validate(); err != nil {
		return err
	}
	if err := env.Validate(name); err != nil {
		return err
	}
	if _, ok := cfg.Environments[name.String()]; ok {
		return goerr.New("environment already exists", goerr.V("env", name))
	}

	if cfg.Environments == nil {
		cfg.Environments = map[string]*workspace.Environment{}
	}
	cfg.Environments[name.String()] = env
	return SaveWorkspace(cfg)
}

// RemoveEnvironment removes an environment and persists the config. Local
// schema files are left untouched.
func RemoveEnvironment(cfg *workspace.Config, name types.EnvName) error {
	if _, err := cfg.Env(name); err != nil {
		return err
	}
	delete(cfg.Environments, name.String())
	return SaveWorkspace(cfg)
}
