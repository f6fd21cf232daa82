package config

import (
	"github.com/tauraamui/framegrab/internal/config"
	"github.com/tauraamui/framegrab/pkg/configdef"
)

type Resolver interface {
	Resolve() (configdef.Values, error)
}

// ResolverFor loads the config file at path, or the default
// location when path is empty.
func ResolverFor(path string) Resolver {
	return config.ResolverFor(path)
}
