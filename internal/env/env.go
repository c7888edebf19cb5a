package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/voskcore/internal/envvar"
)

// Environment is the deployment environment the process runs in.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
	Test        Environment = "test"
)

// FromEnv reads VOSKCORE_ENV, defaulting to Development.
func FromEnv() Environment {
	return Parse(os.Getenv(envvar.VoskcoreEnv))
}

// Parse maps a string to an Environment, defaulting to Development.
func Parse(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prod", "production":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

// IsProduction reports whether e is Production.
func (e Environment) IsProduction() bool {
	return e == Production
}
