package config

import (
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir. An existing
// configuration file is left untouched.
func Initialize(fsys afero.Fs, dir string, log zerolog.Logger) error {
	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(dir, ConfigurationName)
	switch _, err := fsys.Stat(path); {
	case err == nil:
		log.Info().Str("path", path).Msg("configuration already exists, skipping")
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	log.Info().Str("path", path).Msg("writing default configuration")
	return afero.WriteFile(fsys, path, defaultConfigData, 0644)
}
