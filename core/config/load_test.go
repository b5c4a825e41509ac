package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestLoadFs(t *testing.T) {
	cases := map[string]struct {
		contents string
		check    func(*testing.T, *Configuration)
		wantErr  bool
	}{
		"partial": {
			contents: "prompt: \"> \"\nlimits:\n  max_args: 4\n",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "> ", cfg.Prompt)
				assert.Equal(t, 4, cfg.Limits.MaxArgs)
				// Untouched settings keep their defaults.
				assert.Equal(t, 8, cfg.Limits.MaxCommands)
				assert.Equal(t, 320, cfg.Limits.MaxLineLength)
				assert.Equal(t, "dsh", cfg.Tokenizer)
			},
		},
		"posix": {
			contents: "tokenizer: posix\n",
			check: func(t *testing.T, cfg *Configuration) {
				assert.Equal(t, "posix", cfg.Tokenizer)
			},
		},
		"unknown-field": {
			contents: "history_size: 100\n",
			wantErr:  true,
		},
		"invalid-value": {
			contents: "limits:\n  max_commands: 0\n",
			wantErr:  true,
		},
		"bad-yaml": {
			contents: "prompt: [\n",
			wantErr:  true,
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			assert.Nil(t, afero.WriteFile(fsys, "/etc/dsh/config.yaml", []byte(tc.contents), 0644))

			cfg, err := LoadFs(fsys, "/etc/dsh")
			if tc.wantErr {
				assert.NotNil(t, err)
				assert.Nil(t, cfg)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, "/etc/dsh", cfg.Dir())
			tc.check(t, cfg)
		})
	}
}

func TestLoadFs_missing(t *testing.T) {
	cfg, err := LoadFs(afero.NewMemMapFs(), "/nowhere")
	assert.Nil(t, err)
	assert.Equal(t, defaultConfig().Prompt, cfg.Prompt)
	assert.Equal(t, defaultConfig().Limits, cfg.Limits)
}

func TestLoadFs_filePath(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fsys, "/etc/dsh/config.yaml", []byte("banner: hi\n"), 0644))

	cfg, err := LoadFs(fsys, filepath.Join("/etc/dsh", ConfigurationName))
	assert.Nil(t, err)
	assert.Equal(t, "hi", cfg.Banner)
	assert.Equal(t, "/etc/dsh", cfg.Dir())
}
