package config

import (
	_ "embed"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josephlewis42/dsh/core/logger"
	"github.com/josephlewis42/dsh/core/shell"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	ConfigurationName = "config.yaml"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Configuration struct {
	configurationDir string

	Prompt    string `json:"prompt"`
	Tokenizer string `json:"tokenizer" validate:"oneof=dsh posix"`
	Color     string `json:"color" validate:"oneof=auto always never"`
	Banner    string `json:"banner"`

	Limits Limits `json:"limits"`
	Log    Log    `json:"log"`
}

type Limits struct {
	MaxLineLength int `json:"max_line_length" validate:"gte=1"`
	MaxArgs       int `json:"max_args" validate:"gte=1"`
	MaxCommands   int `json:"max_commands" validate:"gte=1"`
}

type Log struct {
	Level  string `json:"level" validate:"oneof=debug info warn error disabled"`
	Format string `json:"format" validate:"oneof=auto console json"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Dir is the directory the configuration was loaded from, empty for the
// built-in defaults.
func (c *Configuration) Dir() string {
	return c.configurationDir
}

// ShellLimits converts the limits section for the parser.
func (c *Configuration) ShellLimits() shell.Limits {
	return shell.Limits{
		MaxLineLength: c.Limits.MaxLineLength,
		MaxArgs:       c.Limits.MaxArgs,
		MaxCommands:   c.Limits.MaxCommands,
	}
}

// TokenizerMode is the configured quoting mode.
func (c *Configuration) TokenizerMode() shell.TokenizerMode {
	return shell.TokenizerMode(c.Tokenizer)
}

// LoggerConfig converts the log section for the logger package.
func (c *Configuration) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
	}
}

// ShellOptions fills the configuration dependent parts of shell.Options.
func (c *Configuration) ShellOptions() shell.Options {
	return shell.Options{
		Limits:    c.ShellLimits(),
		Tokenizer: c.TokenizerMode(),
		Banner:    c.Banner,
	}
}

// Default returns the built-in configuration.
func Default() *Configuration {
	return defaultConfig()
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
