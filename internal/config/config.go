// Package config loads CLI-wide settings for jsastcodec from file, env,
// and defaults via a layered viper configuration.
package config

import "errors"

// OutputFormat selects how inspect renders its result. decode always
// writes the JSON AST interchange format and does not read it.
type OutputFormat string

const (
	// FormatText renders human-readable tables and summaries.
	FormatText OutputFormat = "text"
	// FormatJSON renders machine-readable JSON.
	FormatJSON OutputFormat = "json"
	// FormatYAML renders machine-readable YAML.
	FormatYAML OutputFormat = "yaml"
)

// Config is the top-level configuration struct for jsastcodec.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	// ChunkSize is a write-buffer size in bytes. It is loaded and validated
	// as positive, but no command passes it to the encoder: codec.Encode
	// always buffers with pkg/varint.DefaultChunkSize.
	ChunkSize int `mapstructure:"chunk_size"`

	// MetricsAddr is the listen address for the serve-metrics command's
	// Prometheus scrape endpoint (e.g. ":9090").
	MetricsAddr string `mapstructure:"metrics_addr"`

	// OutputFormat is inspect's default render format when --format is empty.
	OutputFormat OutputFormat `mapstructure:"output_format"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidChunkSize indicates the chunk size is not positive.
	ErrInvalidChunkSize = errors.New("chunk_size must be positive")
	// ErrInvalidOutputFormat indicates an unrecognized output format.
	ErrInvalidOutputFormat = errors.New("output_format must be one of text, json, yaml")
	// ErrInvalidMetricsAddr indicates an empty metrics listen address.
	ErrInvalidMetricsAddr = errors.New("metrics_addr must not be empty")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return ErrInvalidChunkSize
	}

	switch c.OutputFormat {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return ErrInvalidOutputFormat
	}

	if c.MetricsAddr == "" {
		return ErrInvalidMetricsAddr
	}

	return nil
}
