package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory on the OS filesystem.
func Load(path string) (*Configuration, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs loads the configuration from the directory. Settings missing from
// the file keep their defaults, and a missing file yields the defaults.
func LoadFs(fsys afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	out := defaultConfig()
	out.configurationDir = path

	configPath := filepath.Join(path, ConfigurationName)
	configContents, err := afero.ReadFile(fsys, configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return out, nil
	case err != nil:
		return nil, err
	}

	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return out, nil
}
