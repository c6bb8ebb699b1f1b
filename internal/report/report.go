// Package report renders scan results for operators.
//
// The text layout is stable and meant to be read by people and grepped by
// scripts; JSON carries the same numbers for tooling.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xtxerr/sfsquery/config"
	"github.com/xtxerr/sfsquery/internal/aggregate"
	"github.com/xtxerr/sfsquery/internal/scan"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormat reports whether s names a known output format.
func ValidFormat(s string) bool {
	return s == FormatText || s == FormatJSON
}

// Options controls the optional report sections.
type Options struct {
	// Percentiles adds the written bytes distribution over inode lifetimes.
	Percentiles bool

	// Accuracy is the relative accuracy of the percentile sketch.
	Accuracy float64

	// TopWriters, when non-empty, is listed after the operation table.
	TopWriters []Writer
}

// Writer is one inode lifetime ranked by written bytes.
type Writer struct {
	Inode   uint64     `json:"inode"`
	Written uint64     `json:"written_bytes"`
	Created *time.Time `json:"created,omitempty"`
	Deleted *time.Time `json:"deleted,omitempty"`
}

// Operation is one row of the operation table.
type Operation struct {
	Name  string  `json:"operation"`
	Count uint64  `json:"count"`
	Rate  float64 `json:"per_second"`
}

// Report holds every figure printed for a scan.
type Report struct {
	Start           time.Time `json:"-"`
	End             time.Time `json:"-"`
	DurationSeconds int64     `json:"duration_seconds"`

	TotalOperations uint64  `json:"total_operations"`
	OperationsRate  float64 `json:"operations_per_second"`

	WrittenBytes uint64  `json:"written_bytes"`
	WrittenRate  float64 `json:"written_bytes_per_second"`

	FilesCreated       uint64  `json:"files_created"`
	FilesRate          float64 `json:"files_per_second"`
	DirectoriesCreated uint64  `json:"directories_created"`
	DirectoriesRate    float64 `json:"directories_per_second"`
	InodesCreated      uint64  `json:"inodes_created"`
	InodesRate         float64 `json:"inodes_per_second"`

	Operations []Operation `json:"operations"`

	InodeLifetimes int                    `json:"inode_lifetimes"`
	Distribution   *aggregate.Percentiles `json:"written_distribution,omitempty"`
	TopWriters     []Writer               `json:"top_writers,omitempty"`
	StoppedEarly   bool                   `json:"stopped_early"`
}

// Build derives a Report from a scan result.
func Build(res *scan.Result, opts Options) *Report {
	r := &Report{
		Start:              res.Start,
		End:                res.End,
		DurationSeconds:    int64(res.Duration() / time.Second),
		TotalOperations:    res.Total,
		OperationsRate:     res.Rate(res.Total),
		WrittenBytes:       res.Written,
		WrittenRate:        res.Rate(res.Written),
		FilesCreated:       res.FileCount,
		FilesRate:          res.Rate(res.FileCount),
		DirectoriesCreated: res.DirCount,
		DirectoriesRate:    res.Rate(res.DirCount),
		InodesCreated:      res.InodeCreated,
		InodesRate:         res.Rate(res.InodeCreated),
		Operations:         make([]Operation, 0, len(res.Operations)),
		InodeLifetimes:     len(res.History),
		TopWriters:         opts.TopWriters,
		StoppedEarly:       res.Stopped,
	}

	for _, op := range res.Operations {
		r.Operations = append(r.Operations, Operation{
			Name:  op.Operation,
			Count: op.Count,
			Rate:  res.Rate(op.Count),
		})
	}

	if opts.Percentiles {
		accuracy := opts.Accuracy
		if accuracy <= 0 {
			accuracy = config.DefaultPercentileAccuracy
		}
		p := res.WrittenDistribution(accuracy)
		r.Distribution = &p
	}
	return r
}

// Render writes the report in the given format.
func (r *Report) Render(w io.Writer, format string) error {
	switch format {
	case FormatText, "":
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteText writes the human readable report.
func (r *Report) WriteText(w io.Writer) error {
	p := &printer{w: w}

	p.printf("Start: %s\n", r.Start.UTC().Format(config.DateLayout))
	p.printf("End: %s\n", r.End.UTC().Format(config.DateLayout))
	p.printf("Total operations: %d\n", r.TotalOperations)
	p.printf("Operations/s: %.2f\n", r.OperationsRate)
	p.printf("Estimated written bytes: %s\n", FormatBytes(r.WrittenBytes))
	p.printf("Estimated written bytes/s: %s\n", FormatBytes(uint64(r.WrittenRate)))
	p.printf("Total files created: %d\n", r.FilesCreated)
	p.printf("Files created/s: %.2f\n", r.FilesRate)
	p.printf("Total directories created: %d\n", r.DirectoriesCreated)
	p.printf("Directories created/s: %.2f\n", r.DirectoriesRate)
	p.printf("Total inodes created: %d\n", r.InodesCreated)
	p.printf("Inodes created/s: %.2f\n", r.InodesRate)
	p.printf("---\n")
	p.printf("%15s%10s | Ops/s\n", "Operation", "Count")
	for _, op := range r.Operations {
		p.printf("%15s%10d | %.2f/s\n", op.Name+":", op.Count, op.Rate)
	}

	if d := r.Distribution; d != nil {
		p.printf("---\n")
		p.printf("Inode lifetimes: %d\n", d.Count)
		p.printf("Written per inode min/avg/max: %s / %s / %s\n",
			FormatBytes(uint64(d.Min)), FormatBytes(uint64(d.Avg)), FormatBytes(uint64(d.Max)))
		p.printf("Written per inode p50/p90/p95/p99: %s / %s / %s / %s\n",
			FormatBytes(uint64(d.P50)), FormatBytes(uint64(d.P90)),
			FormatBytes(uint64(d.P95)), FormatBytes(uint64(d.P99)))
	}

	if len(r.TopWriters) > 0 {
		p.printf("---\n")
		p.printf("%15s%15s\n", "Inode", "Written")
		for _, wr := range r.TopWriters {
			p.printf("%15d%15s\n", wr.Inode, FormatBytes(wr.Written))
		}
	}
	return p.err
}

// WriteJSON writes the report as one indented JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	doc := struct {
		Start string `json:"start"`
		End   string `json:"end"`
		*Report
	}{
		Start:  r.Start.UTC().Format(config.DateLayout),
		End:    r.End.UTC().Format(config.DateLayout),
		Report: r,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

var byteUnits = []string{"Bytes", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders a byte count with 1024 based units and two decimals.
func FormatBytes(bytes uint64) string {
	size := float64(bytes)
	unit := 0
	for size >= 1024 && unit < len(byteUnits)-1 {
		size /= 1024
		unit++
	}
	return fmt.Sprintf("%.2f %s", size, byteUnits[unit])
}
