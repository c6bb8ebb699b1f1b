package config

import (
	"regexp"

	defaults "github.com/xtxerr/sfsquery/config"
	"github.com/xtxerr/sfsquery/internal/errors"
	"github.com/xtxerr/sfsquery/internal/logging"
	"github.com/xtxerr/sfsquery/internal/report"
	"github.com/xtxerr/sfsquery/internal/segment"
	"github.com/xtxerr/sfsquery/internal/storage/parquet"
)

// memoryLimitPattern matches the sizes DuckDB accepts for memory_limit.
var memoryLimitPattern = regexp.MustCompile(`^(?i)[0-9]+(\.[0-9]+)?\s*(b|kb|mb|gb|tb|kib|mib|gib|tib)$`)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	errs := errors.NewValidationErrors()

	// Log
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs.AddField("log.level", err.Error())
	}
	if !logging.ValidFormat(c.Log.Format) {
		errs.AddField("log.format", "must be text, json or auto")
	}

	// Segments
	if _, err := segment.ParseOrder(c.Segments.Order); err != nil {
		errs.AddField("segments.order", err.Error())
	}

	// Report
	if !report.ValidFormat(c.Report.Format) {
		errs.AddField("report.format", "must be text or json")
	}
	if c.Report.Accuracy <= 0 || c.Report.Accuracy >= 1 {
		errs.Add(errors.NewInvalidValue("report.accuracy", c.Report.Accuracy, "must be between 0 and 1"))
	}

	// Export
	if _, err := parquet.ParseCompressionType(c.Export.Compression); err != nil {
		errs.AddField("export.compression", err.Error())
	}

	// Query
	if c.Query.TopWriters < 0 || c.Query.TopWriters > defaults.MaxTopWriters {
		errs.Add(errors.NewInvalidValue("query.top_writers", c.Query.TopWriters, "out of range"))
	}
	if c.Query.MemoryLimit != "" && !memoryLimitPattern.MatchString(c.Query.MemoryLimit) {
		errs.Add(errors.NewInvalidValue("query.memory_limit", c.Query.MemoryLimit, "expected a size such as 512MB"))
	}

	return errs.Err()
}

// ExportEnabled reports whether Parquet files are written.
func (c *Config) ExportEnabled() bool {
	return c.Export.Dir != ""
}

// NeedsInodeExport reports whether inodes.parquet must be produced, either
// for the export itself or for the top writers query.
func (c *Config) NeedsInodeExport() bool {
	return c.ExportEnabled() || c.Query.TopWriters > 0
}
