// Package aggregate accumulates per-operation counts over included records.
package aggregate

import (
	"sort"

	"github.com/xtxerr/sfsquery/internal/journal"
)

// OpCount is the number of occurrences of one operation.
type OpCount struct {
	Operation string
	Count     uint64
}

// Aggregator counts operations and created nodes. It is not safe for
// concurrent use.
type Aggregator struct {
	ops map[string]uint64

	included     uint64
	fileCount    uint64
	dirCount     uint64
	inodeCreated uint64
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		ops: make(map[string]uint64),
	}
}

// Add counts one included record.
func (a *Aggregator) Add(op string) {
	a.ops[op]++
	a.included++
}

// AddCreated counts a CREATE that carried an inode.
func (a *Aggregator) AddCreated(kind journal.NodeKind) {
	a.inodeCreated++
	switch kind {
	case journal.KindFile:
		a.fileCount++
	case journal.KindDir:
		a.dirCount++
	}
}

// Count returns the occurrences of op.
func (a *Aggregator) Count(op string) uint64 {
	return a.ops[op]
}

// Total returns the number of included records.
func (a *Aggregator) Total() uint64 {
	return a.included
}

// FileCount returns the number of files created.
func (a *Aggregator) FileCount() uint64 { return a.fileCount }

// DirCount returns the number of directories created.
func (a *Aggregator) DirCount() uint64 { return a.dirCount }

// InodeCreatedCount returns the number of CREATE records with an inode.
func (a *Aggregator) InodeCreatedCount() uint64 { return a.inodeCreated }

// IsEmpty returns true if no records have been added.
func (a *Aggregator) IsEmpty() bool {
	return a.included == 0
}

// Snapshot returns the counts sorted by descending count. Equal counts are
// ordered by operation name.
func (a *Aggregator) Snapshot() []OpCount {
	out := make([]OpCount, 0, len(a.ops))
	for op, n := range a.ops {
		out = append(out, OpCount{Operation: op, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Operation < out[j].Operation
	})
	return out
}
