package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/domgraph/domgraph/internal/crawler"
)

const edgeSchema = `
CREATE TABLE IF NOT EXISTS edges (
	source_domain TEXT NOT NULL,
	target_domain TEXT NOT NULL,
	link_count BIGINT NOT NULL DEFAULT 1,
	PRIMARY KEY (source_domain, target_domain)
);

CREATE INDEX IF NOT EXISTS idx_edges_target ON edges (target_domain)`

type pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// EdgeStore persists the link graph in Postgres so several crawler
// invocations can share one graph.
type EdgeStore struct {
	pool pool
}

// NewEdgeStore connects to Postgres using dsn and ensures the edges table
// exists.
func NewEdgeStore(ctx context.Context, dsn string) (*EdgeStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("store.postgres.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := p.Exec(ctx, edgeSchema); err != nil {
		p.Close()
		return nil, fmt.Errorf("create edges schema: %w", err)
	}
	return &EdgeStore{pool: p}, nil
}

// NewEdgeStoreWithPool constructs a store from an existing pool (primarily
// for testing). The caller is responsible for the schema.
func NewEdgeStoreWithPool(p pool) (*EdgeStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &EdgeStore{pool: p}, nil
}

// UpsertEdgeIncrement inserts the (source, target) pair with count 1 or
// increments the existing count.
func (s *EdgeStore) UpsertEdgeIncrement(ctx context.Context, source, target string) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("edge store is not configured")
	}
	const query = `
INSERT INTO edges (source_domain, target_domain, link_count)
VALUES ($1, $2, 1)
ON CONFLICT (source_domain, target_domain)
DO UPDATE SET link_count = edges.link_count + 1`

	if _, err := s.pool.Exec(ctx, query, source, target); err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// QueryIncomingEdges returns every source linking to target with its count.
func (s *EdgeStore) QueryIncomingEdges(ctx context.Context, target string) ([]crawler.SourceCount, error) {
	if s == nil || s.pool == nil {
		return nil, fmt.Errorf("edge store is not configured")
	}
	const query = `
SELECT source_domain, link_count
FROM edges
WHERE target_domain = $1`

	rows, err := s.pool.Query(ctx, query, target)
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

// Close releases the underlying pool resources.
func (s *EdgeStore) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}
