package config

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	if err := Initialize(afero.NewOsFs(), tempDir, zerolog.Nop()); err != nil {
		t.Fatal(err)
	}

	// Check that the config is valid
	cfg, err := Load(tempDir)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, defaultConfig().Limits, cfg.Limits)
	assert.Equal(t, tempDir, cfg.Dir())
}

func TestInitialize_keepsExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	path := filepath.Join("/home/dsh/.dsh", ConfigurationName)
	assert.Nil(t, afero.WriteFile(fsys, path, []byte("prompt: \"$ \"\n"), 0644))

	assert.Nil(t, Initialize(fsys, "/home/dsh/.dsh", zerolog.Nop()))

	contents, err := afero.ReadFile(fsys, path)
	assert.Nil(t, err)
	assert.Equal(t, "prompt: \"$ \"\n", string(contents))
}

func TestInitialize_createsDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.Nil(t, Initialize(fsys, "/a/b/c", zerolog.Nop()))

	contents, err := afero.ReadFile(fsys, "/a/b/c/config.yaml")
	assert.Nil(t, err)
	assert.Equal(t, defaultConfigData, contents)
}
