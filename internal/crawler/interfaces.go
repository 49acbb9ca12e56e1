package crawler

import (
	"context"
	"iter"
)

// EdgeStore persists directed link counts between domains. Implementations
// must make UpsertEdgeIncrement atomic per (source, target) pair: concurrent
// increments may not lose updates. Constructors are expected to verify
// connectivity and fail fast.
type EdgeStore interface {
	// UpsertEdgeIncrement inserts the (source, target) edge with count 1,
	// or increments an existing count by one.
	UpsertEdgeIncrement(ctx context.Context, source, target string) error
	// QueryIncomingEdges returns every source linking to target with its
	// count, in no particular order. No incoming edges is an empty slice,
	// not an error.
	QueryIncomingEdges(ctx context.Context, target string) ([]SourceCount, error)
	Close() error
}

// Fetcher retrieves the root document of a domain. Errors are *FetchError
// values classifying the failure; every kind is recoverable at the worker.
type Fetcher interface {
	Fetch(ctx context.Context, d Domain) (*Page, error)
}

// Extractor yields the raw href values found in an HTML document. The
// sequence is lazy and best-effort: malformed markup ends it silently.
type Extractor interface {
	Links(body []byte, contentType string) iter.Seq[string]
	// Title returns the text of the document's first <title> element with
	// whitespace collapsed, or "" when there is none.
	Title(body []byte, contentType string) string
}

// Frontier schedules each domain at most once and tells workers when the
// crawl is over.
type Frontier interface {
	// EnqueueIfNew schedules d unless it was ever seen before. The check
	// and the insert are one atomic step.
	EnqueueIfNew(d Domain) bool
	// ClaimNext blocks for the next domain; false means the crawl is done.
	ClaimNext() (Domain, bool)
	// JobDone marks one claimed domain fully processed.
	JobDone()
	// Close forces every current and future ClaimNext to report done.
	Close()
}

// EdgeSink accepts discovered edges for persistence.
type EdgeSink interface {
	Submit(ctx context.Context, e Edge) error
}

// PageArchiver stores a snapshot of a fetched page.
type PageArchiver interface {
	SavePage(ctx context.Context, page *Page, title string) error
}
