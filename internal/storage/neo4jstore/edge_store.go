// Package neo4jstore persists the link graph in Neo4j, where edges are
// first-class and path queries over the crawl come cheap.
package neo4jstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/domgraph/domgraph/internal/crawler"
)

const (
	cypherUpsertEdge = `
MERGE (s:Domain {name: $source})
MERGE (t:Domain {name: $target})
MERGE (s)-[r:LINKS_TO]->(t)
ON CREATE SET r.count = 1
ON MATCH SET r.count = r.count + 1`

	cypherIncomingEdges = `
MATCH (s:Domain)-[r:LINKS_TO]->(:Domain {name: $target})
RETURN s.name AS source, r.count AS count`
)

// SessionRunner abstracts neo4j.SessionWithContext.
type SessionRunner interface {
	ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork, configurers ...func(*neo4j.TransactionConfig)) (any, error)
	ExecuteRead(ctx context.Context, work neo4j.ManagedTransactionWork, configurers ...func(*neo4j.TransactionConfig)) (any, error)
	Close(ctx context.Context) error
}

// DriverSessioner abstracts neo4j.DriverWithContext.
type DriverSessioner interface {
	NewSession(ctx context.Context, config neo4j.SessionConfig) SessionRunner
	Close(ctx context.Context) error
}

type driverAdapter struct {
	driver neo4j.DriverWithContext
}

func (d *driverAdapter) NewSession(ctx context.Context, config neo4j.SessionConfig) SessionRunner {
	return d.driver.NewSession(ctx, config)
}

func (d *driverAdapter) Close(ctx context.Context) error {
	return d.driver.Close(ctx)
}

// Config holds the Neo4j connection settings.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// EdgeStore persists the link graph as Domain nodes joined by counted
// LINKS_TO relationships.
type EdgeStore struct {
	driver   DriverSessioner
	database string
}

// NewEdgeStore connects to Neo4j and verifies the server is reachable.
func NewEdgeStore(ctx context.Context, cfg Config) (*EdgeStore, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("store.neo4j.uri is required")
	}
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}
	return &EdgeStore{
		driver:   &driverAdapter{driver: driver},
		database: cfg.Database,
	}, nil
}

// NewEdgeStoreWithDriver constructs a store from an existing driver
// (primarily for testing).
func NewEdgeStoreWithDriver(driver DriverSessioner, database string) (*EdgeStore, error) {
	if driver == nil {
		return nil, fmt.Errorf("driver is required")
	}
	return &EdgeStore{driver: driver, database: database}, nil
}

// UpsertEdgeIncrement merges the (source, target) relationship and bumps its
// count.
func (s *EdgeStore) UpsertEdgeIncrement(ctx context.Context, source, target string) error {
	session := s.driver.NewSession(ctx, s.sessionConfig(neo4j.AccessModeWrite))
	defer func() { _ = session.Close(ctx) }()

	params := map[string]any{"source": source, "target": target}
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, cypherUpsertEdge, params)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// QueryIncomingEdges returns every source linking to target with its count.
func (s *EdgeStore) QueryIncomingEdges(ctx context.Context, target string) ([]crawler.SourceCount, error) {
	session := s.driver.NewSession(ctx, s.sessionConfig(neo4j.AccessModeRead))
	defer func() { _ = session.Close(ctx) }()

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, cypherIncomingEdges, map[string]any{"target": target})
		if err != nil {
			return nil, err
		}
		var rows []crawler.SourceCount
		for result.Next(ctx) {
			record := result.Record()
			source, _ := record.Get("source")
			count, _ := record.Get("count")
			name, ok := source.(string)
			if !ok {
				continue
			}
			n, ok := count.(int64)
			if !ok {
				continue
			}
			rows = append(rows, crawler.SourceCount{Source: name, Count: n})
		}
		return rows, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query incoming edges: %w", err)
	}
	rows, _ := out.([]crawler.SourceCount)
	return rows, nil
}

// Close releases the underlying driver.
func (s *EdgeStore) Close() error {
	return s.driver.Close(context.Background())
}

func (s *EdgeStore) sessionConfig(mode neo4j.AccessMode) neo4j.SessionConfig {
	return neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: s.database,
	}
}
