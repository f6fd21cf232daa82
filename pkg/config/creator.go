package config

import (
	"github.com/tauraamui/framegrab/internal/config"
	"github.com/tauraamui/framegrab/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

// CreatorFor writes the default config to path, or to the
// default location when path is empty.
func CreatorFor(path string) Creator {
	return config.ResolverFor(path)
}
