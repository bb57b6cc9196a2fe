package repository

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/model/workspace"
)

// Credential is a resolved service account key, ready for the
// administration tool. KeyPath always points at a readable key file; when
// the key arrived inline through an environment variable it is a temporary
// file that Cleanup removes.
type Credential struct {
	ProjectID      string
	ServiceAccount string
	KeyPath        string

	tempFile string
}

// Cleanup removes the materialized temp key file, if any. Safe to call
// unconditionally.
func (x *Credential) Cleanup() error {
	if x.tempFile == "" {
		return nil
	}
	if err := os.Remove(x.tempFile); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to remove temporary key file", goerr.V("path", x.tempFile))
	}
	return nil
}

type keyFileData struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

func parseKey(data []byte) (*keyFileData, error) {
	var key keyFileData
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, goerr.Wrap(errs.ErrCredentialUnavailable, "key is not valid JSON",
			goerr.V("cause", err.Error()))
	}
	if key.ProjectID == "" || key.ClientEmail == "" {
		return nil, goerr.Wrap(errs.ErrCredentialUnavailable, "key is missing project_id or client_email")
	}
	return &key, nil
}

// ResolveCredential turns an environment's credential reference into a
// usable Credential. key_file paths resolve relative to the workspace
// directory; key_env may hold either a file path or inline key JSON, the
// latter being materialized to a temp file for the administration tool.
func ResolveCredential(env *workspace.Environment, baseDir string) (*Credential, error) {
	if env.KeyFile != "" {
		path := env.KeyFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		return credentialFromFile(path)
	}

	if env.KeyEnv == "" {
		return nil, goerr.Wrap(errs.ErrCredentialUnavailable, "environment has no credential reference")
	}

	value := os.Getenv(env.KeyEnv)
	if value == "" {
		return nil, goerr.Wrap(errs.ErrCredentialUnavailable, "credential environment variable is not set",
			goerr.V("key_env", env.KeyEnv))
	}

	// A value starting with '{' is inline JSON; anything else is tried as
	// a file path first.
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return credentialFromFile(value)
		}
	}

	key, err := parseKey([]byte(value))
	if err != nil {
		return nil, goerr.Wrap(err, "credential environment variable is neither a file path nor key JSON",
			goerr.V("key_env", env.KeyEnv))
	}

	tempPath := filepath.Join(os.TempDir(), "firesync-key-"+uuid.NewString()+".json")
	if err := os.WriteFile(tempPath, []byte(value), 0600); err != nil {
		return nil, goerr.Wrap(err, "failed to materialize temporary key file")
	}

	return &Credential{
		ProjectID:      key.ProjectID,
		ServiceAccount: key.ClientEmail,
		KeyPath:        tempPath,
		tempFile:       tempPath,
	}, nil
}

func credentialFromFile(path string) (*Credential, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, goerr.Wrap(errs.ErrCredentialUnavailable, "key file is not readable",
			goerr.V("path", path))
	}
	key, err := parseKey(data)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid key file", goerr.V("path", path))
	}
	return &Credential{
		ProjectID:      key.ProjectID,
		ServiceAccount: key.ClientEmail,
		KeyPath:        path,
	}, nil
}
