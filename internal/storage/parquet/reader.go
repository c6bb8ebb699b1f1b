package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/xtxerr/sfsquery/internal/errors"
	"github.com/xtxerr/sfsquery/internal/inode"
)

// fileReader reads rows of type T from a Parquet file.
type fileReader[T any] struct {
	file   *os.File
	reader *parquet.GenericReader[T]
	path   string
}

func newReader[T any](path string) (*fileReader[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open file", path, err)
	}

	return &fileReader[T]{
		file:   f,
		reader: parquet.NewGenericReader[T](f, parquet.ReadBufferSize(1024*1024)),
		path:   path,
	}, nil
}

// ReadAll reads every row of the file.
func (r *fileReader[T]) ReadAll() ([]T, error) {
	rows := make([]T, r.reader.NumRows())
	if len(rows) == 0 {
		return rows, nil
	}

	n, err := r.reader.Read(rows)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return rows[:n], nil
}

// Close closes the reader.
func (r *fileReader[T]) Close() error {
	if err := r.reader.Close(); err != nil {
		r.file.Close()
		return err
	}
	return r.file.Close()
}

// ReadInodes loads an inode lifetime file as records.
func ReadInodes(path string) ([]inode.Record, error) {
	r, err := newReader[InodeRow](path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	records := make([]inode.Record, len(rows))
	for i := range rows {
		records[i] = RowToInode(&rows[i])
	}
	return records, nil
}

// FileInfo holds information about an export file.
type FileInfo struct {
	Path    string
	Size    int64
	NumRows int64
}

// GetFileInfo returns size and row count of a Parquet file.
func GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("stat", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open file", path, err)
	}
	defer f.Close()

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}

	return &FileInfo{
		Path:    path,
		Size:    stat.Size(),
		NumRows: pf.NumRows(),
	}, nil
}
