package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":    zerolog.DebugLevel,
		"INFO":     zerolog.InfoLevel,
		"warn":     zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"disabled": zerolog.Disabled,
		"":         DefaultLevel,
		"chatty":   DefaultLevel,
	}

	for name, want := range cases {
		assert.Equal(t, want, ParseLevel(name), "ParseLevel(%q)", name)
	}
}

func TestNew_json(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "debug", Format: FormatJSON}, &buf)

	log.Debug().Int("stage", 1).Msg("spawned stage")

	entry := make(map[string]interface{})
	assert.Nil(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "spawned stage", entry["message"])
	assert.Equal(t, float64(1), entry["stage"])
	assert.Contains(t, entry, "time")
}

func TestNew_level(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Format: FormatJSON}, &buf)

	log.Debug().Msg("hidden")
	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_console(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatConsole}, &buf)

	log.Info().Str("dir", "/tmp").Msg("changed directory")

	out := buf.String()
	assert.Contains(t, out, "changed directory")
	assert.Contains(t, out, "dir=/tmp")
	assert.NotContains(t, out, "{")
}

func TestNew_autoNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: FormatAuto}, &buf)

	log.Info().Msg("plain")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
	assert.False(t, IsTerminal(&buf))
}
