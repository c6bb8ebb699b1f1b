// Package journal parses metadata server changelog records.
//
// A record is one line of the form
//
//	<id>: <unix_ts>|<OPERATION>(<args>)[:<trailing field>]
//
// e.g. "5: 1710181938|CREATE(1,configuration.h,f,420,1000,1000,0):2".
package journal

import "time"

// Operation names that affect counters. Every other operation is opaque and
// only counted.
const (
	OpCreate  = "CREATE"
	OpUnlink  = "UNLINK"
	OpLength  = "LENGTH"
	OpWrite   = "WRITE"
	OpTrunc   = "TRUNC"
	OpSession = "SESSION"
)

// Node kinds reported by a CREATE record.
type NodeKind int

const (
	KindOther NodeKind = iota
	KindFile
	KindDir
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// Record is one parsed changelog line.
type Record struct {
	ID        uint64
	Timestamp int64 // Unix seconds
	Operation string
	Inode     uint64
	HasInode  bool
	Line      string
}

// Time returns the record timestamp in UTC.
func (r *Record) Time() time.Time {
	return time.Unix(r.Timestamp, 0).UTC()
}
