package config

import (
	"github.com/tauraamui/framegrab/internal/config"
	"github.com/tauraamui/framegrab/pkg/configdef"
)

func Defaults() configdef.Values {
	return config.Defaults()
}
