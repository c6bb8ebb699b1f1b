// Package config loads the optional sfsquery configuration file.
//
// Every value has a default from the top-level config package, so running
// without a file is the common case. Command-line flags override file values.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	defaults "github.com/xtxerr/sfsquery/config"
	"github.com/xtxerr/sfsquery/internal/errors"
)

// Config represents the complete sfsquery configuration.
type Config struct {
	// Log configures stderr logging.
	Log LogConfig `yaml:"log"`

	// Segments configures how journal files are ordered.
	Segments SegmentsConfig `yaml:"segments"`

	// Window holds default window bounds as date strings.
	Window WindowConfig `yaml:"window"`

	// Report configures the report on stdout.
	Report ReportConfig `yaml:"report"`

	// Export configures the Parquet export.
	Export ExportConfig `yaml:"export"`

	// Query configures DuckDB queries over the export.
	Query QueryConfig `yaml:"query"`

	// Metrics configures the Prometheus textfile.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures stderr logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is text, json or auto.
	Format string `yaml:"format"`
}

// SegmentsConfig configures how journal files are ordered.
type SegmentsConfig struct {
	// Order is rotated (highest suffix first) or ascending.
	Order string `yaml:"order"`
}

// WindowConfig holds default window bounds. Any format accepted by --start
// and --stop works here.
type WindowConfig struct {
	Start string `yaml:"start"`
	Stop  string `yaml:"stop"`
}

// ReportConfig configures the report on stdout.
type ReportConfig struct {
	// Format is text or json.
	Format string `yaml:"format"`

	// Percentiles adds the written bytes distribution per inode lifetime.
	Percentiles bool `yaml:"percentiles"`

	// Accuracy is the relative accuracy of the percentile sketch.
	Accuracy float64 `yaml:"accuracy"`
}

// ExportConfig configures the Parquet export.
type ExportConfig struct {
	// Dir receives inodes.parquet and operations.parquet. Empty disables
	// the export.
	Dir string `yaml:"dir"`

	// Compression is one of none, snappy, zstd, lz4, gzip.
	Compression string `yaml:"compression"`
}

// QueryConfig configures DuckDB queries over the export.
type QueryConfig struct {
	// TopWriters lists that many inode lifetimes by written bytes. 0 disables.
	TopWriters int `yaml:"top_writers"`

	// MemoryLimit caps DuckDB memory, e.g. "512MB".
	MemoryLimit string `yaml:"memory_limit"`
}

// MetricsConfig configures the Prometheus textfile.
type MetricsConfig struct {
	// Textfile is the path written after the scan. Empty disables.
	Textfile string `yaml:"textfile"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  defaults.DefaultLogLevel,
			Format: defaults.DefaultLogFormat,
		},
		Segments: SegmentsConfig{
			Order: defaults.DefaultSegmentOrder,
		},
		Report: ReportConfig{
			Format:   defaults.DefaultReportFormat,
			Accuracy: defaults.DefaultPercentileAccuracy,
		},
		Export: ExportConfig{
			Compression: defaults.DefaultExportCompression,
		},
		Query: QueryConfig{
			MemoryLimit: defaults.DefaultQueryMemoryLimit,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIO("read config", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Environment variables are expanded before decoding.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w: %w", errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
