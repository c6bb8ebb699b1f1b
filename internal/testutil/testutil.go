// Package testutil provides helpers for building changelog fixtures in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Line formats one changelog record.
func Line(id uint64, ts int64, body string) string {
	return fmt.Sprintf("%d: %d|%s", id, ts, body)
}

// Journal builds consecutive records with increasing ids.
//
// Usage:
//
//	j := testutil.NewJournal(1, 1710181842)
//	j.Add(0, "SESSION():1")
//	j.Add(5, "CREATE(1,a,f,420,0,0,0):2")
//	lines := j.Lines()
type Journal struct {
	id    uint64
	ts    int64
	lines []string
}

// NewJournal starts a journal at the given id and Unix time.
func NewJournal(firstID uint64, start int64) *Journal {
	return &Journal{id: firstID, ts: start}
}

// Add appends a record dt seconds after the previous one.
func (j *Journal) Add(dt int64, body string) *Journal {
	j.ts += dt
	j.lines = append(j.lines, Line(j.id, j.ts, body))
	j.id++
	return j
}

// At appends a record at an absolute Unix time.
func (j *Journal) At(ts int64, body string) *Journal {
	j.ts = ts
	j.lines = append(j.lines, Line(j.id, j.ts, body))
	j.id++
	return j
}

// Lines returns the records built so far.
func (j *Journal) Lines() []string {
	return append([]string(nil), j.lines...)
}

// WriteSegment writes lines into dir/name and returns the path.
func WriteSegment(t *testing.T, dir, name string, lines []string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write segment %s: %v", path, err)
	}
	return path
}

// WriteRotated splits lines into n rotated segments named like the metadata
// server does: base.<n-1> holds the oldest records and base the newest.
// The returned paths are in creation order, not read order.
func WriteRotated(t *testing.T, dir, base string, lines []string, n int) []string {
	t.Helper()
	if n < 1 {
		t.Fatalf("WriteRotated: n must be positive, got %d", n)
	}

	per := (len(lines) + n - 1) / n
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lo := min(i*per, len(lines))
		hi := min(lo+per, len(lines))

		name := base
		if rot := n - 1 - i; rot > 0 {
			name = fmt.Sprintf("%s.%d", base, rot)
		}
		paths = append(paths, WriteSegment(t, dir, name, lines[lo:hi]))
	}
	return paths
}

// ReadLines loads a fixture file as lines without the trailing newline.
func ReadLines(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
