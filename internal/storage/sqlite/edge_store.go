// Package sqlite provides a file-backed edge store, the default for
// single-machine crawls.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/domgraph/domgraph/internal/crawler"
)

const schema = `
CREATE TABLE IF NOT EXISTS edges (
	source_domain TEXT NOT NULL,
	target_domain TEXT NOT NULL,
	link_count INTEGER NOT NULL DEFAULT 1,
	PRIMARY KEY (source_domain, target_domain)
);

CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_domain);
`

// EdgeStore persists the link graph in a single SQLite file.
type EdgeStore struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*EdgeStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store.sqlite.path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?mode=rwc")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; one connection avoids lock contention
	// between the graph writer and the query path.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &EdgeStore{db: db, path: path}, nil
}

// UpsertEdgeIncrement inserts the (source, target) pair with count 1 or
// increments the existing count.
func (s *EdgeStore) UpsertEdgeIncrement(ctx context.Context, source, target string) error {
	const query = `
INSERT INTO edges (source_domain, target_domain, link_count)
VALUES (?, ?, 1)
ON CONFLICT(source_domain, target_domain)
DO UPDATE SET link_count = link_count + 1`

	if _, err := s.db.ExecContext(ctx, query, source, target); err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// QueryIncomingEdges returns every source linking to target with its count.
func (s *EdgeStore) QueryIncomingEdges(ctx context.Context, target string) ([]crawler.SourceCount, error) {
	const query = `
SELECT source_domain, link_count
FROM edges
WHERE target_domain = ?`

	rows, err := s.db.QueryContext(ctx, query, target)
	if err != nil {
		return nil, fmt.Errorf("query incoming edges: %w", err)
	}
	defer rows.Close()

	var out []crawler.SourceCount
	for rows.Next() {
		var row crawler.SourceCount
		if err := rows.Scan(&row.Source, &row.Count); err != nil {
			return nil, fmt.Errorf("scan edge row: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *EdgeStore) Close() error {
	return s.db.Close()
}
