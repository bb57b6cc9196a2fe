package repository

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/errs"
	"github.com/secmon-lab/firesync/pkg/domain/types"
)

// SchemaDir reads and writes the local schema files of one environment.
type SchemaDir struct {
	dir string
}

func NewSchemaDir(dir string) *SchemaDir {
	return &SchemaDir{dir: dir}
}

func (x *SchemaDir) Path() string {
	return x.dir
}

func (x *SchemaDir) FilePath(kind types.ResourceKind) string {
	return filepath.Join(x.dir, kind.SchemaFile())
}

func (x *SchemaDir) Ensure() error {
	if err := os.MkdirAll(x.dir, 0750); err != nil {
		return goerr.Wrap(err, "failed to create schema directory", goerr.V("dir", x.dir))
	}
	return nil
}

// Load reads one kind's schema file as loosely structured entries. A
// missing file is not an error: found is false and the desired set is
// simply empty. A file that is not a JSON array is a structural error,
// fatal to this kind only.
func (x *SchemaDir) Load(kind types.ResourceKind) (entries []map[string]any, found bool, err error) {
	path := x.FilePath(kind)
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, goerr.Wrap(errs.ErrStructural, "failed to read schema file",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, true, goerr.Wrap(errs.ErrStructural, "expected a JSON array",
			goerr.V("path", path), goerr.V("cause", err.Error()))
	}
	return entries, true, nil
}

// Save writes a remote listing verbatim as the kind's schema file,
// normalizing only indentation and the trailing newline.
func (x *SchemaDir) Save(kind types.ResourceKind, raw []byte) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("[]")
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return goerr.Wrap(err, "remote listing is not valid JSON", goerr.V("kind", kind))
	}
	buf.WriteByte('\n')

	path := x.FilePath(kind)
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return goerr.Wrap(err, "failed to write schema file", goerr.V("path", path))
	}
	return nil
}
