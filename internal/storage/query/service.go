package query

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/xtxerr/sfsquery/internal/logging"
)

// Service runs DuckDB queries over exported Parquet files.
type Service struct {
	// serializes queries and guards stats
	mu sync.RWMutex

	db *sql.DB

	// Statistics
	stats Stats
}

// Stats holds query statistics.
type Stats struct {
	QueriesExecuted int64
	RowsReturned    int64
	Errors          int64
}

// Options configures the DuckDB instance.
type Options struct {
	// MemoryLimit is the DuckDB memory_limit option, e.g. "512MB". Empty
	// keeps the DuckDB default.
	MemoryLimit string
}

// Writer is one inode lifetime ranked by written bytes.
type Writer struct {
	Inode    uint64
	Lifetime int32
	Written  uint64
	Created  *time.Time
	Deleted  *time.Time
}

// New opens an in-memory DuckDB database.
func New(opts Options) (*Service, error) {
	db, err := sql.Open("duckdb", dsn(opts))
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	return &Service{db: db}, nil
}

// dsn builds the connection string for an in-memory database. Settings
// travel as DuckDB config options, never as SQL text.
func dsn(opts Options) string {
	params := url.Values{}
	if opts.MemoryLimit != "" {
		params.Set("memory_limit", opts.MemoryLimit)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// Close closes the query service.
func (s *Service) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// TopWriters returns the limit inode lifetimes with the most written bytes
// from an inodes Parquet file. Ties are ordered by inode and lifetime.
func (s *Service) TopWriters(ctx context.Context, path string, limit int) ([]Writer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		SELECT inode, lifetime, written_bytes, created_unix, deleted_unix
		FROM read_parquet($1)
		WHERE written_bytes > 0
		ORDER BY written_bytes DESC, inode, lifetime
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, path, limit)
	if err != nil {
		s.stats.Errors++
		return nil, fmt.Errorf("query top writers: %w", err)
	}
	defer rows.Close()

	var writers []Writer
	for rows.Next() {
		var (
			ino, written     uint64
			lifetime         int32
			created, deleted sql.NullInt64
		)
		if err := rows.Scan(&ino, &lifetime, &written, &created, &deleted); err != nil {
			s.stats.Errors++
			return nil, fmt.Errorf("scan row: %w", err)
		}
		writers = append(writers, Writer{
			Inode:    ino,
			Lifetime: lifetime,
			Written:  written,
			Created:  nullTime(created),
			Deleted:  nullTime(deleted),
		})
	}
	if err := rows.Err(); err != nil {
		s.stats.Errors++
		return nil, err
	}

	s.stats.QueriesExecuted++
	s.stats.RowsReturned += int64(len(writers))

	logging.Component("query").Debug("top writers", "path", path, "limit", limit, "rows", len(writers))
	return writers, nil
}

func nullTime(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}

// Stats returns query statistics.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}
