// Package segment orders rotated journal files and reads them line by line.
package segment

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Order is the direction segments are read in.
type Order int

const (
	// OrderRotated reads the highest rotation suffix first and suffix 0 (the
	// current, unsuffixed journal) last: "changelog.sfs.2", "changelog.sfs.1",
	// "changelog.sfs".
	OrderRotated Order = iota

	// OrderAscending reads suffixes from lowest to highest.
	OrderAscending
)

// ParseOrder parses an order name.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "rotated", "":
		return OrderRotated, nil
	case "ascending":
		return OrderAscending, nil
	default:
		return OrderRotated, fmt.Errorf("unknown segment order %q", s)
	}
}

// String returns the order name.
func (o Order) String() string {
	if o == OrderAscending {
		return "ascending"
	}
	return "rotated"
}

// Segment is one journal file with its rotation index.
type Segment struct {
	Path     string
	Rotation int
}

// Name returns the file name of the segment.
func (s Segment) Name() string {
	return filepath.Base(s.Path)
}

// RotationOf returns the numeric suffix after the last '.', or 0 when the
// suffix is missing or not a number.
func RotationOf(path string) int {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return 0
	}
	n, err := strconv.Atoi(path[i+1:])
	if err != nil {
		return 0
	}
	return n
}

// Sequence returns the segments for paths in read order. Paths sharing a
// rotation index keep their relative input order.
func Sequence(paths []string, order Order) []Segment {
	segs := make([]Segment, len(paths))
	for i, p := range paths {
		segs[i] = Segment{Path: p, Rotation: RotationOf(p)}
	}

	sort.SliceStable(segs, func(i, j int) bool {
		if order == OrderAscending {
			return segs[i].Rotation < segs[j].Rotation
		}
		return segs[i].Rotation > segs[j].Rotation
	})
	return segs
}
