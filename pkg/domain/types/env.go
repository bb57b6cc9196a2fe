package types

import (
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// EnvName is the workspace environment name (e.g. dev, staging, prod).
type EnvName string

var envNamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

func (x EnvName) String() string {
	return string(x)
}

func (x EnvName) Validate() error {
	if x == "" {
		return goerr.New("empty environment name")
	}
	if !envNamePattern.MatchString(string(x)) {
		return goerr.New("invalid environment name", goerr.V("name", x))
	}
	return nil
}

// IsProductionLike reports whether the name looks like a production
// environment. The confirmation gate uses this to emit an extra warning.
func (x EnvName) IsProductionLike() bool {
	return strings.Contains(strings.ToLower(string(x)), "prod")
}
