// sfsquery reports operation rates and storage growth from metadata server
// changelog files.
//
//	sfsquery [--start STR] [--stop STR] FILES...
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	defaults "github.com/xtxerr/sfsquery/config"
	"github.com/xtxerr/sfsquery/internal/errors"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the root command and maps the outcome to an exit status.
func execute(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitOK
	}
	printError(stderr, err)
	return errors.ExitCode(err)
}

// flags holds the command line. Empty strings and zero values mean "not
// given" and leave the config file value in place.
type flags struct {
	configPath      string
	start           string
	stop            string
	format          string
	logLevel        string
	logFormat       string
	order           string
	exportDir       string
	compression     string
	top             int
	metricsTextfile string
	percentiles     bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:     "sfsquery [flags] FILES...",
		Short:   "Query .sfs changelog files",
		Long:    "sfsquery scans metadata server changelog files and reports operation counts,\nrates and estimated written bytes over a time window.",
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd, f, args, stdout)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	fl := cmd.Flags()
	fl.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fl.StringVar(&f.start, "start", "", "when to start reading from the logs (date string)")
	fl.StringVar(&f.stop, "stop", "", "when to stop reading from the logs (date string)")
	fl.StringVar(&f.format, "format", "", "report format: text or json")
	fl.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fl.StringVar(&f.logFormat, "log-format", "", "log format: text, json or auto")
	fl.StringVar(&f.order, "order", "", "segment order: rotated or ascending")
	fl.StringVar(&f.exportDir, "export-dir", "", "write "+defaults.InodesFileName+" and "+defaults.OperationsFileName+" here")
	fl.StringVar(&f.compression, "compression", "", "Parquet compression: none, snappy, zstd, lz4, gzip")
	fl.IntVar(&f.top, "top", 0, "list the N inode lifetimes with the most written bytes")
	fl.StringVar(&f.metricsTextfile, "metrics-textfile", "", "write Prometheus scan metrics to this file")
	fl.BoolVar(&f.percentiles, "percentiles", false, "add written bytes percentiles per inode lifetime")

	return cmd
}

// printError writes err to stderr. Malformed records and bad dates use the
// same wording as earlier releases so wrappers keep matching it.
func printError(w io.Writer, err error) {
	var lineErr *errors.LineError
	var dateErr *dateFlagError

	switch {
	case errors.As(err, &lineErr):
		fmt.Fprintf(w, "Error parsing line at %d in file %s: %v\n", lineErr.Line, lineErr.File, lineErr.Err)
		fmt.Fprintf(w, "Line: %s\n", lineErr.Text)
		fmt.Fprintln(w, "Exiting...")
	case errors.As(err, &dateErr):
		fmt.Fprintf(w, "Failed to parse date in --%s option: %v\n", dateErr.flag, dateErr.err)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// dateFlagError names the flag a date came from.
type dateFlagError struct {
	flag string
	err  error
}

func (e *dateFlagError) Error() string {
	return fmt.Sprintf("--%s: %v", e.flag, e.err)
}

func (e *dateFlagError) Unwrap() error {
	return e.err
}
