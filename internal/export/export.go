// Package export writes the post-scan artifacts: Parquet files of the inode
// history and operation counts, and the Prometheus metrics textfile.
//
// The scan result is immutable, so the writers run concurrently.
package export

import (
	"context"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	defaults "github.com/xtxerr/sfsquery/config"
	"github.com/xtxerr/sfsquery/internal/errors"
	"github.com/xtxerr/sfsquery/internal/logging"
	"github.com/xtxerr/sfsquery/internal/metrics"
	"github.com/xtxerr/sfsquery/internal/scan"
	"github.com/xtxerr/sfsquery/internal/storage/parquet"
)

// Plan selects what is written.
type Plan struct {
	// Dir receives the Parquet files. Empty skips them.
	Dir string

	// Operations also writes operations.parquet next to inodes.parquet.
	Operations bool

	// Parquet configures the file writers.
	Parquet parquet.Options

	// MetricsTextfile is written from Metrics when both are set.
	MetricsTextfile string
	Metrics         *metrics.Scan
}

// Outcome lists what was written.
type Outcome struct {
	InodesPath     string
	InodeRows      int64
	OperationsPath string
	OperationRows  int64
	MetricsPath    string
}

// Run writes every artifact of the plan. The first failure cancels the rest.
func Run(ctx context.Context, res *scan.Result, plan Plan) (*Outcome, error) {
	log := logging.Component("export")
	out := &Outcome{}

	g, ctx := errgroup.WithContext(ctx)

	if plan.Dir != "" {
		out.InodesPath = filepath.Join(plan.Dir, defaults.InodesFileName)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := parquet.WriteFile(out.InodesPath, parquet.InodeRows(res.History), plan.Parquet)
			if err != nil {
				return errors.Wrap(err, "export inodes")
			}
			out.InodeRows = n
			log.Debug("inodes exported", "path", out.InodesPath, "rows", n)
			return nil
		})

		if plan.Operations {
			out.OperationsPath = filepath.Join(plan.Dir, defaults.OperationsFileName)
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rows := parquet.OperationRows(res.Operations, res.Rate)
				n, err := parquet.WriteFile(out.OperationsPath, rows, plan.Parquet)
				if err != nil {
					return errors.Wrap(err, "export operations")
				}
				out.OperationRows = n
				log.Debug("operations exported", "path", out.OperationsPath, "rows", n)
				return nil
			})
		}
	}

	if plan.MetricsTextfile != "" && plan.Metrics != nil {
		out.MetricsPath = plan.MetricsTextfile
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := plan.Metrics.WriteTextfile(plan.MetricsTextfile); err != nil {
				return errors.NewIO("write metrics textfile", plan.MetricsTextfile, err)
			}
			log.Debug("metrics written", "path", plan.MetricsTextfile)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
