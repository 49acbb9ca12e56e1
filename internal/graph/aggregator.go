package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/domgraph/domgraph/internal/crawler"
)

// Aggregator answers incoming-link questions against a populated store.
type Aggregator struct {
	store crawler.EdgeStore
}

func NewAggregator(store crawler.EdgeStore) *Aggregator {
	return &Aggregator{store: store}
}

// LinksTo returns every domain with at least one recorded edge to target,
// ordered by link count descending, ties broken by source name ascending.
// An unknown target yields an empty slice, not an error.
func (a *Aggregator) LinksTo(ctx context.Context, target string) ([]crawler.SourceCount, error) {
	rows, err := a.store.QueryIncomingEdges(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("query incoming edges for %s: %w", target, err)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Source < rows[j].Source
	})
	return rows, nil
}
