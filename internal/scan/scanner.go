// Package scan runs the single sequential pass over journal segments.
//
// Segments are read in rotation order; each line is parsed, checked against
// the time window and, when included, folded into the inode ledger and the
// operation counts. A malformed line aborts the scan. Reaching a record past
// the configured end stops it without error.
package scan

import (
	"io"
	"log/slog"
	"time"

	"github.com/xtxerr/sfsquery/internal/aggregate"
	"github.com/xtxerr/sfsquery/internal/errors"
	"github.com/xtxerr/sfsquery/internal/inode"
	"github.com/xtxerr/sfsquery/internal/journal"
	"github.com/xtxerr/sfsquery/internal/logging"
	"github.com/xtxerr/sfsquery/internal/metrics"
	"github.com/xtxerr/sfsquery/internal/segment"
	"github.com/xtxerr/sfsquery/internal/window"
)

// Options configures a Scanner.
type Options struct {
	// Window holds the configured bounds. Nil means no bounds.
	Window *window.Window

	// Order is the segment read order.
	Order segment.Order

	// Metrics receives scan counters. May be nil.
	Metrics *metrics.Scan
}

// Scanner owns all state of one pass. Create one per run.
type Scanner struct {
	window  *window.Window
	order   segment.Order
	ledger  *inode.Ledger
	agg     *aggregate.Aggregator
	metrics *metrics.Scan
	log     *slog.Logger

	segments []SegmentStats
	stopped  bool
	result   *Result
}

// SegmentStats describes one segment read during the scan.
type SegmentStats struct {
	Path      string
	Rotation  int
	LinesRead int64
	BytesRead int64
}

// New creates a Scanner.
func New(opts Options) *Scanner {
	w := opts.Window
	if w == nil {
		w = window.New()
	}
	return &Scanner{
		window:  w,
		order:   opts.Order,
		ledger:  inode.NewLedger(),
		agg:     aggregate.New(),
		metrics: opts.Metrics,
		log:     logging.Component("scan"),
	}
}

// Run scans the files at paths and returns the finalized result.
func (s *Scanner) Run(paths []string) (*Result, error) {
	for _, seg := range segment.Sequence(paths, s.order) {
		cont, err := s.scanSegment(seg)
		if err != nil {
			return nil, err
		}
		if !cont {
			break
		}
	}
	return s.Finish(), nil
}

func (s *Scanner) scanSegment(seg segment.Segment) (bool, error) {
	r, err := segment.Open(seg)
	if err != nil {
		return false, err
	}
	defer r.Close()

	s.metrics.ObserveSegment()
	s.log.Debug("segment opened", "path", seg.Path, "rotation", seg.Rotation)

	cont := true
	for cont {
		line, n, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, err
		}

		cont, err = s.Process(line)
		if err != nil {
			return false, &errors.LineError{File: seg.Path, Line: n, Text: line, Err: err}
		}
	}

	stats := r.Stats()
	s.segments = append(s.segments, SegmentStats{
		Path:      seg.Path,
		Rotation:  seg.Rotation,
		LinesRead: stats.LinesRead,
		BytesRead: stats.BytesRead,
	})
	s.log.Debug("segment done", "path", seg.Path, "lines", stats.LinesRead, "stopped", !cont)
	return cont, nil
}

// Process handles one journal line. It returns false when the scan must stop.
func (s *Scanner) Process(line string) (bool, error) {
	rec, err := journal.Parse(line)
	if err != nil {
		return false, err
	}
	s.metrics.ObserveRecord()

	switch s.window.Evaluate(rec.Time()) {
	case window.Stop:
		s.stopped = true
		s.metrics.ObserveStop()
		return false, nil
	case window.SkipOne:
		s.metrics.ObserveSkipped()
		return true, nil
	}

	if err := s.applyInodeOperation(&rec); err != nil {
		return false, err
	}
	s.agg.Add(rec.Operation)
	s.metrics.ObserveIncluded(rec.Operation)
	return true, nil
}

func (s *Scanner) applyInodeOperation(rec *journal.Record) error {
	switch rec.Operation {
	case journal.OpCreate:
		if rec.HasInode {
			s.ledger.Create(rec.Inode, rec.Time())
			s.agg.AddCreated(rec.Kind())
		}
	case journal.OpUnlink:
		if rec.HasInode {
			s.ledger.Delete(rec.Inode, rec.Time())
		}
	case journal.OpLength:
		ino, length, err := rec.Length()
		if err != nil {
			return err
		}
		s.ledger.UpdateLength(ino, length)
	}
	return nil
}

// ScanLines processes in-memory lines as one segment named name and returns
// the finalized result.
func (s *Scanner) ScanLines(name string, lines []string) (*Result, error) {
	for i, line := range lines {
		cont, err := s.Process(line)
		if err != nil {
			return nil, &errors.LineError{File: name, Line: i + 1, Text: line, Err: err}
		}
		if !cont {
			break
		}
	}
	return s.Finish(), nil
}

// Finish flushes the active inodes into history and returns the result.
// Calling it again returns the same result.
func (s *Scanner) Finish() *Result {
	if s.result != nil {
		return s.result
	}

	s.ledger.FlushActive()

	res := &Result{
		Start:        s.window.Start(),
		End:          s.window.End(),
		StartSet:     s.window.StartSet(),
		EndSet:       s.window.EndSet(),
		Operations:   s.agg.Snapshot(),
		Total:        s.agg.Total(),
		FileCount:    s.agg.FileCount(),
		DirCount:     s.agg.DirCount(),
		InodeCreated: s.agg.InodeCreatedCount(),
		History:      s.ledger.History(),
		Written:      s.ledger.Written(),
		Stopped:      s.stopped,
		Segments:     s.segments,
	}
	s.result = res

	s.metrics.ObserveTotals(res.Written, len(res.History), res.Start.Unix(), res.End.Unix())
	s.log.Info("scan finished",
		"segments", len(res.Segments),
		"operations", res.Total,
		"inode_lifetimes", len(res.History),
		"written_bytes", res.Written,
		"stopped_early", res.Stopped)
	return res
}

// Result is the immutable outcome of a scan.
type Result struct {
	Start    time.Time
	End      time.Time
	StartSet bool
	EndSet   bool

	Operations   []aggregate.OpCount // descending count
	Total        uint64
	FileCount    uint64
	DirCount     uint64
	InodeCreated uint64

	History []inode.Record
	Written uint64

	Stopped  bool
	Segments []SegmentStats
}

// Duration returns the window length.
func (r *Result) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Rate returns count per second over the window.
func (r *Result) Rate(count uint64) float64 {
	return window.Rate(count, r.Duration())
}

// WrittenDistribution summarizes written bytes per inode lifetime.
func (r *Result) WrittenDistribution(accuracy float64) aggregate.Percentiles {
	d := aggregate.NewDistribution(accuracy)
	for i := range r.History {
		d.Add(float64(r.History[i].Written))
	}
	return d.Result()
}
