package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".jsastcodec"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for jsastcodec settings.
const envPrefix = "JSASTCODEC"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

const (
	// DefaultChunkSize is the default encoder write-buffer size in bytes.
	DefaultChunkSize = 64 * 1024
	// DefaultMetricsAddr is the default serve-metrics listen address.
	DefaultMetricsAddr = ":9090"
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		// A searched-for file that is absent surfaces as
		// ConfigFileNotFoundError; an explicit path that is absent surfaces
		// as the underlying fs.ErrNotExist. Both fall back to defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) && !errors.Is(readErr, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("chunk_size", DefaultChunkSize)
	viperCfg.SetDefault("metrics_addr", DefaultMetricsAddr)
	viperCfg.SetDefault("output_format", string(FormatText))
}
