package errs

import (
	"errors"
)

// Workspace / configuration errors. These abort a run before any plan is built.
var ErrWorkspaceNotFound = errors.New("workspace not found")
var ErrWorkspaceExists = errors.New("workspace already exists")
var ErrEnvironmentNotFound = errors.New("environment not found")
var ErrCredentialUnavailable = errors.New("credential is not available")

// ErrStructural marks a schema file that is not a well-formed JSON array.
// It is fatal to that resource kind only; sibling kinds continue.
var ErrStructural = errors.New("schema file is not a JSON array")

// ErrMalformedResource marks a single schema entry missing required fields.
// The entry is skipped with a warning; the batch continues.
var ErrMalformedResource = errors.New("malformed schema resource")
