// Package store caches merged-site results in DuckDB: a
// database/sql-backed, schema-on-open table that a merge pipeline can
// hand its output to for later SQL querying.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection holding merged-site results.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates a DuckDB database at path. An empty path opens
// an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS merged_sites (
		column_begin BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		median_pl VARCHAR,
		PRIMARY KEY (column_begin, ref)
	)`)
	return err
}

// PutSite inserts or replaces one merged site's result.
func (s *Store) PutSite(columnBegin int64, ref string, alt []string, medians []int32) error {
	altStr := strings.Join(alt, ",")
	medStr := joinInt32(medians)

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO merged_sites (column_begin, ref, alt, median_pl) VALUES (?, ?, ?, ?)`,
		columnBegin, ref, altStr, medStr,
	)
	return err
}

// SiteCount returns the number of cached sites.
func (s *Store) SiteCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM merged_sites`).Scan(&n)
	return n, err
}

func joinInt32(vals []int32) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ",")
}
