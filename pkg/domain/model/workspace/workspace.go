package workspace

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/types"
)

const (
	// DirName is the workspace directory, found by upward search from the
	// working directory.
	DirName  = "firestore-migration"
	FileName = "config.yaml"

	DefaultSchemaDir = "schemas"
)

// Environment binds an environment name to a credential reference: either
// a key file path relative to the workspace directory, or the name of an
// environment variable holding the key (path or inline JSON).
type Environment struct {
	KeyFile     string  `yaml:"key_file,omitempty"`
	KeyEnv      string  `yaml:"key_env,omitempty"`
	Description *string `yaml:"description,omitempty"`
}

func (x *Environment) Validate(name types.EnvName) error {
	if x.KeyFile != "" && x.KeyEnv != "" {
		return goerr.New("cannot specify both key_file and key_env", goerr.V("env", name))
	}
	if x.KeyFile == "" && x.KeyEnv == "" {
		return goerr.New("must specify either key_file or key_env", goerr.V("env", name))
	}
	return nil
}

type Settings struct {
	SchemaDir string `yaml:"schema_dir,omitempty"`
}

// Config is the parsed workspace config.yaml.
type Config struct {
	Version      int                     `yaml:"version"`
	Environments map[string]*Environment `yaml:"environments"`
	Settings     Settings                `yaml:"settings"`

	path string `yaml:"-"`
}

func (x *Config) SetPath(path string) {
	x.path = path
}

func (x *Config) Path() string {
	return x.path
}

// Dir is the workspace directory containing config.yaml. Relative key file
// paths and schema directories resolve against it.
func (x *Config) Dir() string {
	return filepath.Dir(x.path)
}

func (x *Config) Validate() error {
	if x.Version != 1 {
		return goerr.New("unsupported workspace config version", goerr.V("version", x.Version))
	}
	for name, env := range x.Environments {
		if env == nil {
			return goerr.New("empty environment entry", goerr.V("env", name))
		}
		if err := env.Validate(types.EnvName(name)); err != nil {
			return err
		}
	}
	return nil
}

// Env returns the named environment, or ErrEnvironmentNotFound listing the
// configured names.
func (x *Config) Env(name types.EnvName) (*Environment, error) {
	if env, ok := x.Environments[name.String()]; ok {
		return env, nil
	}
	return nil, goerr.Wrap(errs.ErrEnvironmentNotFound, "environment is not configured",
		goerr.V("env", name),
		goerr.V("available", strings.Join(x.EnvNames(), ", ")),
	)
}

// EnvNames returns the configured environment names, sorted.
func (x *Config) EnvNames() []string {
	names := make([]string, 0, len(x.Environments))
	for name := range x.Environments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SchemaDir returns the per-environment schema directory.
func (x *Config) SchemaDir(name types.EnvName) string {
	dir := x.Settings.SchemaDir
	if dir == "" {
		dir = DefaultSchemaDir
	}
	return filepath.Join(x.Dir(), dir, name.String())
}
