package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/tauraamui/framegrab/pkg/configdef"
	"github.com/tauraamui/xerror"
)

func create(explicitPath string) (string, error) {
	data, err := loadRawDefaultConfig()
	if err != nil {
		return "", xerror.Errorf("unable to init default config into memory: %w", err)
	}

	path := explicitPath
	if len(path) == 0 {
		path, err = resolveConfigPath()
		if err != nil {
			return "", err
		}
	}

	if err := fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm); err != nil {
		return "", xerror.Errorf("unable to create config parent directory: %w", err)
	}

	err = writeConfigToDisk(data, path, false)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return path, configdef.ErrConfigAlreadyExists
		}
		return path, err
	}

	return path, nil
}

func writeConfigToDisk(data []byte, path string, overwrite bool) error {
	flags := os.O_RDWR | os.O_CREATE
	if !overwrite {
		flags |= os.O_EXCL
	}

	file, err := fs.OpenFile(path, flags, 0666)
	if err != nil {
		return xerror.Errorf("unable to create/open file: %w", err)
	}
	defer file.Close()

	bc, err := file.Write(data)
	if err != nil {
		return xerror.Errorf("unable to write config to file: %s: %w", path, err)
	}

	if bc != len(data) {
		return xerror.Errorf("unable to write full config data to file: %s", path)
	}

	return nil
}

func loadRawDefaultConfig() ([]byte, error) {
	return json.MarshalIndent(Defaults(), "", " ")
}
