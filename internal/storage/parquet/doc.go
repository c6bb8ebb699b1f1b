// Package parquet writes and reads the scan export files.
//
// The package provides:
//   - InodeRow for inode lifetimes (one row per lifetime)
//   - OperationRow for per-operation counts
//   - WriteFile, ReadInodes and GetFileInfo over either row type
//   - Support for multiple compression algorithms (snappy, zstd, lz4, gzip)
//
// Inode ids and byte counts are unsigned 64-bit columns and read back in
// DuckDB as UBIGINT, so values past 2^63 keep their order.
package parquet
