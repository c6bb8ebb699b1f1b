// Package config provides configuration defaults for sfsquery.
//
// This package defines all configurable constants with documented defaults.
// Users can override these values via a YAML config file or command-line flags.
package config

// =============================================================================
// Logging Defaults
// =============================================================================

const (
	// DefaultLogLevel is the minimum level written to stderr.
	// Override via config: log.level or --log-level
	DefaultLogLevel = "info"

	// DefaultLogFormat selects text on a terminal and JSON otherwise.
	// Override via config: log.format
	DefaultLogFormat = "auto"
)

// =============================================================================
// Segment Defaults
// =============================================================================

const (
	// DefaultSegmentOrder reads the highest rotation suffix first and the
	// unsuffixed (current) journal last.
	// Override via config: segments.order or --order
	DefaultSegmentOrder = "rotated"

	// DefaultReadBufferSize is the per-segment buffered reader size.
	DefaultReadBufferSize = 256 * 1024
)

// =============================================================================
// Report Defaults
// =============================================================================

const (
	// DefaultReportFormat is the report rendering on stdout.
	// Override via config: report.format or --format
	DefaultReportFormat = "text"

	// DefaultPercentileAccuracy is the DDSketch relative accuracy (1%).
	// Override via config: report.accuracy
	DefaultPercentileAccuracy = 0.01

	// DateLayout is how window bounds are printed.
	DateLayout = "2006-01-02 15:04:05"
)

// =============================================================================
// Export Defaults
// =============================================================================

const (
	// DefaultExportCompression is the Parquet codec for exported files.
	// Override via config: export.compression
	DefaultExportCompression = "zstd"

	// InodesFileName holds one row per inode lifetime.
	InodesFileName = "inodes.parquet"

	// OperationsFileName holds one row per operation name.
	OperationsFileName = "operations.parquet"
)

// =============================================================================
// Query Defaults
// =============================================================================

const (
	// DefaultQueryMemoryLimit caps DuckDB memory for the top writers query.
	// Override via config: query.memory_limit
	DefaultQueryMemoryLimit = "512MB"

	// MaxTopWriters bounds --top.
	MaxTopWriters = 10000
)
