package journal

import (
	"strconv"
	"strings"

	"github.com/xtxerr/sfsquery/internal/errors"
)

const (
	idSeparator    = ": "
	fieldDelimiter = "|"
	inodeMarker    = "):"
	dirMarker      = ",d,"
	fileMarker     = ",f,"
	argsOpen       = "("
	argsClose      = ")"
	argsSeparator  = ","
)

// Parse converts one raw line into a Record.
func Parse(line string) (Record, error) {
	ts, err := parseTimestamp(line)
	if err != nil {
		return Record{}, err
	}
	id, err := parseID(line)
	if err != nil {
		return Record{}, err
	}
	op, err := parseOperation(line)
	if err != nil {
		return Record{}, err
	}
	inode, ok := parseInode(line, op)

	return Record{
		ID:        id,
		Timestamp: ts,
		Operation: op,
		Inode:     inode,
		HasInode:  ok,
		Line:      line,
	}, nil
}

// parseID returns the changelog sequence number before the first ": ".
func parseID(line string) (uint64, error) {
	head, _, found := strings.Cut(line, idSeparator)
	if !found {
		return 0, errors.ErrMissingSeparator
	}
	id, err := strconv.ParseUint(head, 10, 64)
	if err != nil {
		return 0, errors.ErrBadID
	}
	return id, nil
}

// parseTimestamp returns the first '|' field after the id separator.
func parseTimestamp(line string) (int64, error) {
	_, rest, found := strings.Cut(line, idSeparator)
	if !found {
		return 0, errors.ErrMissingSeparator
	}
	field, _, _ := strings.Cut(rest, fieldDelimiter)
	ts, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, errors.ErrBadTimestamp
	}
	return ts, nil
}

// parseOperation returns the text between '|' and the first '('.
func parseOperation(line string) (string, error) {
	_, rest, found := strings.Cut(line, fieldDelimiter)
	if !found {
		return "", errors.ErrMissingDelimiter
	}
	op, _, _ := strings.Cut(rest, argsOpen)
	return op, nil
}

// parseInode returns the number after the last "):" marker. WRITE and TRUNC
// end in a temporary id, not an inode.
func parseInode(line, op string) (uint64, bool) {
	switch op {
	case OpWrite, OpTrunc:
		return 0, false
	}
	i := strings.LastIndex(line, inodeMarker)
	if i < 0 {
		return 0, false
	}
	inode, err := strconv.ParseUint(strings.TrimSpace(line[i+len(inodeMarker):]), 10, 64)
	if err != nil {
		return 0, false
	}
	return inode, true
}

// Length extracts the "<inode>,<length>" pair of a LENGTH record.
func (r *Record) Length() (inode, length uint64, err error) {
	start := strings.Index(r.Line, argsOpen)
	end := strings.Index(r.Line, argsClose)
	if start < 0 || end < 0 || end < start {
		return 0, 0, errors.ErrMissingParenthesis
	}

	inodeStr, lengthStr, found := strings.Cut(r.Line[start+1:end], argsSeparator)
	if !found {
		return 0, 0, errors.ErrMissingComma
	}
	if inode, err = strconv.ParseUint(inodeStr, 10, 64); err != nil {
		return 0, 0, errors.ErrBadInode
	}
	if length, err = strconv.ParseUint(lengthStr, 10, 64); err != nil {
		return 0, 0, errors.ErrBadLength
	}
	return inode, length, nil
}

// Kind classifies a CREATE record by its node type marker.
func (r *Record) Kind() NodeKind {
	switch {
	case strings.Contains(r.Line, dirMarker):
		return KindDir
	case strings.Contains(r.Line, fileMarker):
		return KindFile
	default:
		return KindOther
	}
}
