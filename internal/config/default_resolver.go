package config

import (
	"github.com/tauraamui/framegrab/pkg/configdef"
)

// ResolverFor resolves and creates the config file at path,
// falling back to the environment or the user config directory
// when path is empty.
func ResolverFor(path string) configdef.CreateResolver {
	return defaultResolver{path: path}
}

type defaultResolver struct {
	path string
}

func (d defaultResolver) Resolve() (configdef.Values, error) {
	return load(d.path)
}

func (d defaultResolver) Create() (string, error) {
	return create(d.path)
}
