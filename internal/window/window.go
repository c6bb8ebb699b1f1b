// Package window decides which journal records fall inside the reporting
// time range and tracks the range actually observed.
package window

import "time"

// Decision is the outcome of evaluating one record.
type Decision int

const (
	// Include folds the record into the statistics.
	Include Decision = iota

	// SkipOne drops the record and continues the scan.
	SkipOne

	// Stop ends the whole scan. Not an error.
	Stop
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Include:
		return "include"
	case SkipOne:
		return "skip"
	case Stop:
		return "stop"
	default:
		return "unknown"
	}
}

// Window is the start/end range of a scan.
//
// An explicit bound is a reporting anchor and never moves. An unset bound
// follows the earliest (start) or latest (end) included record.
type Window struct {
	start    time.Time
	end      time.Time
	startSet bool
	endSet   bool

	startSeen bool
	endSeen   bool
}

// New returns a window with no explicit bounds.
func New() *Window {
	return &Window{}
}

// SetStart fixes the start bound.
func (w *Window) SetStart(t time.Time) {
	w.start = t.UTC()
	w.startSet = true
}

// SetEnd fixes the end bound.
func (w *Window) SetEnd(t time.Time) {
	w.end = t.UTC()
	w.endSet = true
}

// Evaluate decides what happens with a record at ts and widens the observed
// range when the record is included.
func (w *Window) Evaluate(ts time.Time) Decision {
	if w.endSet && ts.After(w.end) {
		return Stop
	}
	if w.startSet && ts.Before(w.start) {
		return SkipOne
	}

	w.observe(ts.UTC())
	return Include
}

func (w *Window) observe(ts time.Time) {
	if !w.startSet && (!w.startSeen || ts.Before(w.start)) {
		w.start = ts
		w.startSeen = true
	}
	if !w.endSet && (!w.endSeen || ts.After(w.end)) {
		w.end = ts
		w.endSeen = true
	}
}

// Start returns the configured or observed start. Zero when neither exists.
func (w *Window) Start() time.Time {
	if w.startSet || w.startSeen {
		return w.start
	}
	return time.Unix(0, 0).UTC()
}

// End returns the configured or observed end. Zero when neither exists.
func (w *Window) End() time.Time {
	if w.endSet || w.endSeen {
		return w.end
	}
	return time.Unix(0, 0).UTC()
}

// StartSet reports whether the start bound was configured.
func (w *Window) StartSet() bool { return w.startSet }

// EndSet reports whether the end bound was configured.
func (w *Window) EndSet() bool { return w.endSet }

// Duration returns End - Start.
func (w *Window) Duration() time.Duration {
	return w.End().Sub(w.Start())
}

// Rate returns count per second of the window. A window of zero seconds or
// less yields the raw count.
func (w *Window) Rate(count uint64) float64 {
	return Rate(count, w.Duration())
}

// Rate returns count per second of d, or count when d has no whole seconds.
func Rate(count uint64, d time.Duration) float64 {
	secs := int64(d / time.Second)
	if secs <= 0 {
		return float64(count)
	}
	return float64(count) / float64(secs)
}
