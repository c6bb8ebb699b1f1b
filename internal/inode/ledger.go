// Package inode tracks inode lifetimes across a changelog scan.
//
// Inode numbers are recycled by the filesystem, so a lifetime is not
// identified by its number alone. The Ledger keeps at most one active
// lifetime per number and appends finished lifetimes to an ordered history.
package inode

import (
	"slices"
	"time"
)

// Record is one inode lifetime.
type Record struct {
	Inode           uint64
	Created         *time.Time
	Deleted         *time.Time
	LastKnownLength uint64
	Written         uint64 // truncations are not subtracted
}

// Ledger holds the active lifetimes and the history of finished ones.
// It is not safe for concurrent use.
type Ledger struct {
	active  map[uint64]*Record
	history []Record
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		active: make(map[uint64]*Record),
	}
}

// Create starts a lifetime for inode unless one is already active.
func (l *Ledger) Create(inode uint64, ts time.Time) {
	if _, ok := l.active[inode]; ok {
		return
	}
	created := ts
	l.active[inode] = &Record{
		Inode:   inode,
		Created: &created,
	}
}

// Delete ends the active lifetime of inode and moves it to history as is.
// Without an active lifetime a history record with only the deletion time
// is added.
func (l *Ledger) Delete(inode uint64, ts time.Time) {
	if rec, ok := l.active[inode]; ok {
		delete(l.active, inode)
		l.history = append(l.history, *rec)
		return
	}
	deleted := ts
	l.history = append(l.history, Record{
		Inode:   inode,
		Deleted: &deleted,
	})
}

// UpdateLength records a new length for inode. Growth is added to Written;
// the first known length of a created inode counts in full. An inode seen
// for the first time through a length change starts a lifetime whose initial
// length is not counted.
func (l *Ledger) UpdateLength(inode, length uint64) {
	rec, ok := l.active[inode]
	if !ok {
		l.active[inode] = &Record{
			Inode:           inode,
			LastKnownLength: length,
		}
		return
	}

	if rec.LastKnownLength == 0 {
		rec.Written += length
	} else if length > rec.LastKnownLength {
		rec.Written += length - rec.LastKnownLength
	}
	rec.LastKnownLength = length
}

// FlushActive moves every active lifetime to history, ordered by inode
// number so repeated scans produce the same history.
func (l *Ledger) FlushActive() {
	inodes := make([]uint64, 0, len(l.active))
	for ino := range l.active {
		inodes = append(inodes, ino)
	}
	slices.Sort(inodes)

	for _, ino := range inodes {
		l.history = append(l.history, *l.active[ino])
		delete(l.active, ino)
	}
}

// Active returns the active lifetime of inode, if any.
func (l *Ledger) Active(inode uint64) (Record, bool) {
	rec, ok := l.active[inode]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// ActiveCount returns the number of active lifetimes.
func (l *Ledger) ActiveCount() int {
	return len(l.active)
}

// History returns the finished lifetimes in the order they finished.
// The slice must not be modified.
func (l *Ledger) History() []Record {
	return l.history
}

// Written returns the sum of Written over history.
func (l *Ledger) Written() uint64 {
	var total uint64
	for i := range l.history {
		total += l.history[i].Written
	}
	return total
}
