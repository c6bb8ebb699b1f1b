package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xtxerr/sfsquery/internal/config"
	"github.com/xtxerr/sfsquery/internal/errors"
	"github.com/xtxerr/sfsquery/internal/export"
	"github.com/xtxerr/sfsquery/internal/logging"
	"github.com/xtxerr/sfsquery/internal/metrics"
	"github.com/xtxerr/sfsquery/internal/report"
	"github.com/xtxerr/sfsquery/internal/scan"
	"github.com/xtxerr/sfsquery/internal/segment"
	"github.com/xtxerr/sfsquery/internal/storage/parquet"
	"github.com/xtxerr/sfsquery/internal/storage/query"
	"github.com/xtxerr/sfsquery/internal/timespec"
	"github.com/xtxerr/sfsquery/internal/window"
)

func run(ctx context.Context, cmd *cobra.Command, f *flags, files []string, stdout io.Writer) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}

	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.InitWriter(cmd.ErrOrStderr(), level, cfg.Log.Format)
	log := logging.Component("cli")

	if len(files) == 0 {
		return errors.ErrNoInput
	}

	w, err := buildWindow(ctx, cfg)
	if err != nil {
		return err
	}
	order, _ := segment.ParseOrder(cfg.Segments.Order)

	var m *metrics.Scan
	if cfg.Metrics.Textfile != "" {
		m = metrics.NewScan()
	}

	log.Debug("scan starting", "files", len(files), "order", order.String(),
		"start_set", w.StartSet(), "end_set", w.EndSet())

	res, err := scan.New(scan.Options{Window: w, Order: order, Metrics: m}).Run(files)
	if err != nil {
		return err
	}

	plan, cleanup, err := exportPlan(cfg, m)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := export.Run(ctx, res, plan)
	if err != nil {
		return err
	}

	opts := report.Options{
		Percentiles: cfg.Report.Percentiles,
		Accuracy:    cfg.Report.Accuracy,
	}
	if cfg.Query.TopWriters > 0 {
		opts.TopWriters, err = topWriters(ctx, cfg, out.InodesPath)
		if err != nil {
			return err
		}
	}

	if err := report.Build(res, opts).Render(stdout, cfg.Report.Format); err != nil {
		return errors.NewIO("write report", "stdout", err)
	}
	return nil
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig(f *flags) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}

	override(&cfg.Window.Start, f.start)
	override(&cfg.Window.Stop, f.stop)
	override(&cfg.Report.Format, f.format)
	override(&cfg.Log.Level, f.logLevel)
	override(&cfg.Log.Format, f.logFormat)
	override(&cfg.Segments.Order, f.order)
	override(&cfg.Export.Dir, f.exportDir)
	override(&cfg.Export.Compression, f.compression)
	override(&cfg.Metrics.Textfile, f.metricsTextfile)
	if f.top != 0 {
		cfg.Query.TopWriters = f.top
	}
	if f.percentiles {
		cfg.Report.Percentiles = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// buildWindow resolves the configured bounds.
func buildWindow(ctx context.Context, cfg *config.Config) (*window.Window, error) {
	w := window.New()
	resolver := timespec.NewResolver()

	if s := cfg.Window.Start; s != "" {
		t, err := resolver.Resolve(ctx, s)
		if err != nil {
			return nil, &dateFlagError{flag: "start", err: err}
		}
		w.SetStart(t)
	}
	if s := cfg.Window.Stop; s != "" {
		t, err := resolver.Resolve(ctx, s)
		if err != nil {
			return nil, &dateFlagError{flag: "stop", err: err}
		}
		w.SetEnd(t)
	}
	return w, nil
}

// exportPlan decides where Parquet files go. The top writers query needs
// inodes.parquet even without an export directory, so a temporary one is
// used and removed by cleanup.
func exportPlan(cfg *config.Config, m *metrics.Scan) (export.Plan, func(), error) {
	compression, _ := parquet.ParseCompressionType(cfg.Export.Compression)
	plan := export.Plan{
		Dir:             cfg.Export.Dir,
		Operations:      cfg.ExportEnabled(),
		Parquet:         parquet.Options{Compression: compression, RowGroupSize: parquet.DefaultOptions().RowGroupSize},
		MetricsTextfile: cfg.Metrics.Textfile,
		Metrics:         m,
	}

	cleanup := func() {}
	if plan.Dir == "" && cfg.NeedsInodeExport() {
		dir, err := os.MkdirTemp("", "sfsquery-")
		if err != nil {
			return plan, cleanup, errors.NewIO("create temp dir", os.TempDir(), err)
		}
		plan.Dir = dir
		cleanup = func() { os.RemoveAll(dir) }
	}
	return plan, cleanup, nil
}

// topWriters ranks inode lifetimes by written bytes with DuckDB.
func topWriters(ctx context.Context, cfg *config.Config, inodesPath string) ([]report.Writer, error) {
	svc, err := query.New(query.Options{MemoryLimit: cfg.Query.MemoryLimit})
	if err != nil {
		return nil, err
	}
	defer svc.Close()

	rows, err := svc.TopWriters(ctx, inodesPath, cfg.Query.TopWriters)
	if err != nil {
		return nil, err
	}

	writers := make([]report.Writer, len(rows))
	for i, r := range rows {
		writers[i] = report.Writer{
			Inode:   r.Inode,
			Written: r.Written,
			Created: r.Created,
			Deleted: r.Deleted,
		}
	}
	return writers, nil
}
