package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	defaults "github.com/xtxerr/sfsquery/config"
	"github.com/xtxerr/sfsquery/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Segments.Order != defaults.DefaultSegmentOrder {
		t.Errorf("expected order %q, got %q", defaults.DefaultSegmentOrder, cfg.Segments.Order)
	}
	if cfg.Report.Format != "text" {
		t.Errorf("expected text report, got %q", cfg.Report.Format)
	}
	if cfg.ExportEnabled() {
		t.Error("export should be disabled by default")
	}
	if cfg.NeedsInodeExport() {
		t.Error("inode export should not be needed by default")
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	data := []byte(`
log:
  level: debug
  format: json
segments:
  order: ascending
window:
  start: "2024-03-11"
report:
  format: json
  percentiles: true
export:
  dir: /tmp/sfs
  compression: snappy
query:
  top_writers: 5
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Segments.Order != "ascending" {
		t.Errorf("expected ascending, got %q", cfg.Segments.Order)
	}
	if cfg.Window.Start != "2024-03-11" || cfg.Window.Stop != "" {
		t.Errorf("unexpected window: %+v", cfg.Window)
	}
	if !cfg.Report.Percentiles {
		t.Error("expected percentiles enabled")
	}
	// untouched keys keep their defaults
	if cfg.Report.Accuracy != defaults.DefaultPercentileAccuracy {
		t.Errorf("expected default accuracy, got %f", cfg.Report.Accuracy)
	}
	if cfg.Query.MemoryLimit != defaults.DefaultQueryMemoryLimit {
		t.Errorf("expected default memory limit, got %q", cfg.Query.MemoryLimit)
	}
	if !cfg.ExportEnabled() || !cfg.NeedsInodeExport() {
		t.Error("expected export enabled")
	}
}

func TestParseExpandsEnv(t *testing.T) {
	t.Setenv("SFSQUERY_TEST_EXPORT", "/var/lib/sfsquery")

	cfg, err := Parse([]byte("export:\n  dir: ${SFSQUERY_TEST_EXPORT}/out\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Export.Dir != "/var/lib/sfsquery/out" {
		t.Errorf("expected expanded dir, got %q", cfg.Export.Dir)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"bad order", func(c *Config) { c.Segments.Order = "random" }, "segments.order"},
		{"bad report format", func(c *Config) { c.Report.Format = "html" }, "report.format"},
		{"zero accuracy", func(c *Config) { c.Report.Accuracy = 0 }, "report.accuracy"},
		{"bad compression", func(c *Config) { c.Export.Compression = "rar" }, "export.compression"},
		{"negative top", func(c *Config) { c.Query.TopWriters = -1 }, "query.top_writers"},
		{"huge top", func(c *Config) { c.Query.TopWriters = defaults.MaxTopWriters + 1 }, "query.top_writers"},
		{"bad memory limit", func(c *Config) { c.Query.MemoryLimit = "512'; DROP" }, "query.memory_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.IsConfig(err) {
				t.Errorf("expected config error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected %q in error, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateCollectsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "loud"
	cfg.Report.Format = "html"

	err := cfg.Validate()
	var verrs *errors.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(verrs.Errors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(verrs.Errors))
	}
}

func TestMemoryLimitFormats(t *testing.T) {
	for _, v := range []string{"512MB", "1GB", "1.5GiB", "256 mb", ""} {
		cfg := DefaultConfig()
		cfg.Query.MemoryLimit = v
		if err := cfg.Validate(); err != nil {
			t.Errorf("memory limit %q should be valid: %v", v, err)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sfsquery.yaml")
	if err := os.WriteFile(path, []byte("report:\n  format: json\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Report.Format != "json" {
		t.Errorf("expected json, got %q", cfg.Report.Format)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	if !errors.IsIO(err) {
		t.Errorf("expected IO error for missing file, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("log: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err = Load(bad)
	if !errors.IsConfig(err) {
		t.Errorf("expected config error for bad YAML, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("segments:\n  order: sideways\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err = Load(invalid)
	if errors.ExitCode(err) != errors.ExitInvalidConfig {
		t.Errorf("expected exit %d, got %d (%v)", errors.ExitInvalidConfig, errors.ExitCode(err), err)
	}
}
