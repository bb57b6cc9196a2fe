package gcloud

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/firesync/pkg/domain/model/schema"
)

// Listing commands. Output format is JSON in the provider-raw shape.

func ListCompositeIndexes() Command {
	return NewCommand("firestore", "indexes", "composite", "list", "--format=json")
}

func ListFieldIndexes() Command {
	return NewCommand("firestore", "indexes", "fields", "list", "--format=json")
}

func ListTTLPolicies() Command {
	return NewCommand("firestore", "fields", "ttls", "list", "--format=json")
}

// indexSpec renders a canonical mode as a gcloud index specification.
func indexSpec(mode string) string {
	if mode == "contains" {
		return "array-config=contains"
	}
	return "order=" + mode
}

func CreateCompositeIndex(idx schema.CompositeIndex) Command {
	args := []string{
		"firestore", "indexes", "composite", "create",
		"--collection-group=" + idx.Key.CollectionGroup,
		"--query-scope=" + string(idx.Key.QueryScope),
	}
	for _, f := range idx.Fields {
		args = append(args, "--field-config="+indexSpec(f.Mode)+",field-path="+f.FieldPath)
	}
	return NewCommand(args...)
}

// DeleteCompositeIndex targets the provider-assigned index ID, available
// only on records built from a remote listing.
func DeleteCompositeIndex(idx schema.CompositeIndex) (Command, error) {
	id := indexID(idx.Name)
	if id == "" {
		return Command{}, goerr.New("composite index has no resource name to delete",
			goerr.V("collection_group", idx.Key.CollectionGroup),
			goerr.V("fields", idx.FieldSpec()),
		)
	}
	return NewCommand(
		"firestore", "indexes", "composite", "delete", id,
		"--quiet",
	), nil
}

// indexID extracts the index ID from a provider resource name like
// projects/p/databases/(default)/collectionGroups/orders/indexes/CICAgJju.
func indexID(name string) string {
	parts := strings.Split(name, "/")
	for i, part := range parts {
		if part == "indexes" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func CreateFieldIndex(fi schema.FieldIndex) Command {
	return NewCommand(
		"firestore", "indexes", "fields", "update", fi.FieldPath,
		"--collection-group="+fi.CollectionGroup,
		"--index="+indexSpec(fi.Mode),
	)
}

func DeleteFieldIndex(fi schema.FieldIndex) Command {
	return NewCommand(
		"firestore", "indexes", "fields", "update", fi.FieldPath,
		"--collection-group="+fi.CollectionGroup,
		"--remove-index="+indexSpec(fi.Mode),
	)
}

// UpdateTTLPolicy enables or disables a TTL policy to match the record.
func UpdateTTLPolicy(p schema.TTLPolicy) Command {
	verb := "--disable-ttl"
	if p.Enabled {
		verb = "--enable-ttl"
	}
	return NewCommand(
		"firestore", "fields", "ttls", "update", p.Key.FieldPath,
		"--collection-group="+p.Key.CollectionGroup,
		verb,
	)
}
