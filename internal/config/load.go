package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/framegrab/pkg/configdef"
	"github.com/tauraamui/framegrab/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "framegrab"
	configFileName = "config.json"
	configEnvVar   = "FRAMEGRAB_CONFIG"
)

var fs afero.Fs = afero.NewOsFs()

// load reads the config at explicitPath, or at the resolved
// location when explicitPath is empty. Only a resolved location
// is allowed to be missing, in which case defaults are used.
func load(explicitPath string) (configdef.Values, error) {
	values := Defaults()

	configPath := explicitPath
	if len(configPath) == 0 {
		resolved, err := resolveConfigPath()
		if err != nil {
			return configdef.Values{}, err
		}
		configPath = resolved
	}

	log.Debug("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		if len(explicitPath) == 0 && errors.Is(err, os.ErrNotExist) {
			log.Debug("No config file at %s, using defaults", configPath)
			return values, nil
		}
		return configdef.Values{}, xerror.Errorf("unable to read config file: %w", err)
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return pkgerrors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv(configEnvVar)
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
