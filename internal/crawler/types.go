package crawler

import (
	"time"
)

// Domain is a normalized root-domain identity, e.g. "facebook.com". It is
// the unit of graph identity: lowercased host with default ports stripped,
// no scheme, path, query, or fragment. "www.messenger.com" and
// "messenger.com" are distinct domains.
type Domain string

// String returns the domain as a plain string.
func (d Domain) String() string { return string(d) }

// Edge is a directed "links-to" relation: a page on Source links to Target.
// The store keeps one count per distinct (Source, Target) pair. Self-edges
// are legal and recorded.
type Edge struct {
	Source Domain
	Target Domain
}

// SourceCount is one row of an incoming-edge aggregate: Source linked to
// the queried target Count times.
type SourceCount struct {
	Source string
	Count  int64
}

// Page is the result of fetching a domain's root document. It lives only for
// the duration of one worker iteration; nothing here reaches the edge store.
type Page struct {
	Domain      Domain
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
	Duration    time.Duration
}
