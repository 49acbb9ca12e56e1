// Package memory provides in-process storage for development and testing.
package memory

import (
	"context"
	"sync"

	"github.com/domgraph/domgraph/internal/crawler"
)

// EdgeStore keeps the link graph in process memory. Counts survive only as
// long as the process; use it for tests and one-shot crawls where the query
// runs in the same invocation.
type EdgeStore struct {
	mu       sync.RWMutex
	incoming map[string]map[string]int64
}

// NewEdgeStore constructs an empty EdgeStore.
func NewEdgeStore() *EdgeStore {
	return &EdgeStore{
		incoming: make(map[string]map[string]int64),
	}
}

// UpsertEdgeIncrement records one more source->target link.
func (s *EdgeStore) UpsertEdgeIncrement(_ context.Context, source, target string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sources, ok := s.incoming[target]
	if !ok {
		sources = make(map[string]int64)
		s.incoming[target] = sources
	}
	sources[source]++
	return nil
}

// QueryIncomingEdges returns every source linking to target with its count,
// in no particular order.
func (s *EdgeStore) QueryIncomingEdges(_ context.Context, target string) ([]crawler.SourceCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := s.incoming[target]
	out := make([]crawler.SourceCount, 0, len(sources))
	for source, count := range sources {
		out = append(out, crawler.SourceCount{Source: source, Count: count})
	}
	return out, nil
}

// Close releases nothing; it exists to satisfy the store contract.
func (s *EdgeStore) Close() error { return nil }
