// Package redisstore keeps link counts in Redis hashes, one hash per target
// domain keyed by source.
package redisstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/domgraph/domgraph/internal/crawler"
)

const keyPrefix = "in:"

type commands interface {
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	Close() error
}

// Config holds the Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// EdgeStore records edges with HINCRBY, which makes the count increment
// atomic on the server side.
type EdgeStore struct {
	client commands
}

// NewEdgeStore connects to Redis and verifies the server is reachable.
func NewEdgeStore(ctx context.Context, cfg Config) (*EdgeStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("store.redis.addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &EdgeStore{client: client}, nil
}

// NewEdgeStoreWithClient constructs a store from an existing client
// (primarily for testing).
func NewEdgeStoreWithClient(client commands) (*EdgeStore, error) {
	if client == nil {
		return nil, fmt.Errorf("client is required")
	}
	return &EdgeStore{client: client}, nil
}

// UpsertEdgeIncrement bumps the source field in the target's hash.
func (s *EdgeStore) UpsertEdgeIncrement(ctx context.Context, source, target string) error {
	if err := s.client.HIncrBy(ctx, keyPrefix+target, source, 1).Err(); err != nil {
		return fmt.Errorf("upsert edge: %w", err)
	}
	return nil
}

// QueryIncomingEdges returns every source linking to target with its count.
// A target nobody links to yields an empty hash, not an error.
func (s *EdgeStore) QueryIncomingEdges(ctx context.Context, target string) ([]crawler.SourceCount, error) {
	fields, err := s.client.HGetAll(ctx, keyPrefix+target).Result()
	if err != nil {
		return nil, fmt.Errorf("query incoming edges: %w", err)
	}
	out := make([]crawler.SourceCount, 0, len(fields))
	for source, raw := range fields {
		count, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse count for %s: %w", source, err)
		}
		out = append(out, crawler.SourceCount{Source: source, Count: count})
	}
	return out, nil
}

// Close closes the Redis client.
func (s *EdgeStore) Close() error {
	return s.client.Close()
}
