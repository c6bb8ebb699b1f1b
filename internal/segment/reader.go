package segment

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/xtxerr/sfsquery/config"
	"github.com/xtxerr/sfsquery/internal/errors"
)

// Reader reads lines from one journal segment.
type Reader struct {
	seg  Segment
	file *os.File
	br   *bufio.Reader

	// Statistics
	stats ReaderStats
}

// ReaderStats holds segment reader statistics.
type ReaderStats struct {
	LinesRead int64
	BytesRead int64
}

// Open opens a segment for reading. A missing or unreadable file is an I/O error.
func Open(seg Segment) (*Reader, error) {
	f, err := os.Open(seg.Path)
	if err != nil {
		return nil, errors.NewIO("open segment", seg.Path, err)
	}

	return &Reader{
		seg:  seg,
		file: f,
		br:   bufio.NewReaderSize(f, config.DefaultReadBufferSize),
	}, nil
}

// ReadLine returns the next line without its terminator and its 1-based
// number. Returns io.EOF when there are no more lines.
func (r *Reader) ReadLine() (string, int, error) {
	line, err := r.br.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", 0, errors.NewIO("read segment", r.seg.Path, err)
	}
	if err == io.EOF && line == "" {
		return "", 0, io.EOF
	}

	r.stats.LinesRead++
	r.stats.BytesRead += int64(len(line))

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, int(r.stats.LinesRead), nil
}

// Close closes the reader.
func (r *Reader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Stats returns reader statistics.
func (r *Reader) Stats() ReaderStats {
	return r.stats
}
