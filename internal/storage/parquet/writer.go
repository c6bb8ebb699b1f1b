package parquet

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/xtxerr/sfsquery/internal/aggregate"
	"github.com/xtxerr/sfsquery/internal/errors"
	"github.com/xtxerr/sfsquery/internal/inode"
)

// Options configures the Parquet writer.
type Options struct {
	// Compression algorithm
	Compression CompressionType

	// RowGroupSize caps the number of rows buffered per row group
	RowGroupSize int64
}

// CompressionType represents a Parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionLZ4
	CompressionGzip
)

// DefaultOptions returns default Parquet options.
func DefaultOptions() Options {
	return Options{
		Compression:  CompressionZstd,
		RowGroupSize: 100000,
	}
}

// ParseCompressionType parses a compression type string.
func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "snappy":
		return CompressionSnappy, nil
	case "zstd", "":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "gzip":
		return CompressionGzip, nil
	case "none":
		return CompressionNone, nil
	default:
		return CompressionZstd, fmt.Errorf("unknown compression %q", s)
	}
}

// getCompression returns the parquet-go compression codec.
func getCompression(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionLZ4:
		return &parquet.Lz4Raw
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// InodeRow is one inode lifetime in Parquet format. Ids and byte counts are
// unsigned 64-bit columns (UBIGINT in DuckDB).
type InodeRow struct {
	Inode           uint64 `parquet:"inode"`
	Lifetime        int32  `parquet:"lifetime"`
	CreatedUnix     *int64 `parquet:"created_unix"`
	DeletedUnix     *int64 `parquet:"deleted_unix"`
	LastKnownLength uint64 `parquet:"last_known_length"`
	Written         uint64 `parquet:"written_bytes"`
}

// OperationRow is one operation count in Parquet format.
type OperationRow struct {
	Operation string  `parquet:"operation,dict"`
	Count     int64   `parquet:"count"`
	PerSecond float64 `parquet:"per_second"`
}

// InodeRows converts a lifetime history into rows. Lifetime numbers the
// occurrences of each inode id in history order, starting at 1.
func InodeRows(history []inode.Record) []InodeRow {
	seen := make(map[uint64]int32, len(history))
	rows := make([]InodeRow, len(history))
	for i := range history {
		r := &history[i]
		seen[r.Inode]++
		rows[i] = InodeRow{
			Inode:           r.Inode,
			Lifetime:        seen[r.Inode],
			CreatedUnix:     unixPtr(r.Created),
			DeletedUnix:     unixPtr(r.Deleted),
			LastKnownLength: r.LastKnownLength,
			Written:         r.Written,
		}
	}
	return rows
}

// RowToInode converts an InodeRow back to a lifetime record.
func RowToInode(row *InodeRow) inode.Record {
	return inode.Record{
		Inode:           row.Inode,
		Created:         timePtr(row.CreatedUnix),
		Deleted:         timePtr(row.DeletedUnix),
		LastKnownLength: row.LastKnownLength,
		Written:         row.Written,
	}
}

// OperationRows converts operation counts into rows with per-second rates.
func OperationRows(ops []aggregate.OpCount, rate func(uint64) float64) []OperationRow {
	rows := make([]OperationRow, len(ops))
	for i, op := range ops {
		rows[i] = OperationRow{
			Operation: op.Operation,
			Count:     int64(op.Count),
			PerSecond: rate(op.Count),
		}
	}
	return rows
}

func unixPtr(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	v := t.Unix()
	return &v
}

func timePtr(v *int64) *time.Time {
	if v == nil {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

// fileWriter writes rows of type T to a Parquet file.
type fileWriter[T any] struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	writer   *parquet.GenericWriter[T]
	rowCount int64
	closed   bool
}

func newWriter[T any](path string, opts Options) (*fileWriter[T], error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewIO("create directory", dir, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create file", path, err)
	}

	writerOpts := []parquet.WriterOption{
		parquet.Compression(getCompression(opts.Compression)),
	}
	if opts.RowGroupSize > 0 {
		writerOpts = append(writerOpts, parquet.MaxRowsPerRowGroup(opts.RowGroupSize))
	}

	return &fileWriter[T]{
		path:   path,
		file:   f,
		writer: parquet.NewGenericWriter[T](f, writerOpts...),
	}, nil
}

// Write appends rows to the file.
func (w *fileWriter[T]) Write(rows []T) error {
	if len(rows) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWriterClosed
	}

	n, err := w.writer.Write(rows)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	w.rowCount += int64(n)
	return nil
}

// Close flushes the footer and closes the file.
func (w *fileWriter[T]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close writer: %w", err)
	}

	if err := w.file.Close(); err != nil {
		return errors.NewIO("close file", w.path, err)
	}
	return nil
}

// RowCount returns the number of rows written.
func (w *fileWriter[T]) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// WriteFile writes rows to a new file at path in one go.
func WriteFile[T any](path string, rows []T, opts Options) (int64, error) {
	w, err := newWriter[T](path, opts)
	if err != nil {
		return 0, err
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return 0, err
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	return w.RowCount(), nil
}

// ErrWriterClosed is returned when writing to a closed writer.
var ErrWriterClosed = fmt.Errorf("parquet writer is closed")
