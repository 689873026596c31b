package config

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/scachelab/shufflebench/internal/errors"
)

// configName is the base name of the optional config file
// (.shufflebench.yaml).
const configName = ".shufflebench"

// newViperInstance creates a viper instance with the standard harness
// configuration: defaults, SHUFFLEBENCH_ env prefix, and key replacer.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SHUFFLEBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from all available sources with proper
// precedence (highest first): SHUFFLEBENCH_* environment variables, a
// .shufflebench.yaml in the working directory, one in the user's home,
// then built-in defaults.
//
// A missing config file is not an error; an unreadable or invalid one is.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !stderrors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("scripts.dir", cfg.Scripts.Dir).
		Str("conf.base_dir", cfg.Conf.BaseDir).
		Int("workload.repeats", cfg.Workload.Repeats).
		Str("config_file", v.ConfigFileUsed()).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}
