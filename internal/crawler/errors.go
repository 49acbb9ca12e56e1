package crawler

import (
	"errors"
	"fmt"
)

// FetchKind classifies a fetch failure.
type FetchKind string

// Fetch failure kinds. Every kind is recoverable: the worker logs, counts,
// and moves to the next job.
const (
	// FetchTimeout: the request exceeded the configured deadline.
	FetchTimeout FetchKind = "timeout"
	// FetchHTTPStatus: the server answered with a non-2xx status.
	FetchHTTPStatus FetchKind = "http_status"
	// FetchNetwork: DNS, connection, or TLS failure on both schemes.
	FetchNetwork FetchKind = "network"
	// FetchContent: a 2xx response whose Content-Type is not HTML.
	FetchContent FetchKind = "content"
)

// FetchError describes why a domain's root document could not be used.
type FetchError struct {
	Kind   FetchKind
	Domain Domain
	Code   int // HTTP status, set for FetchHTTPStatus only
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPStatus:
		return fmt.Sprintf("fetch %s: http status %d", e.Domain, e.Code)
	case FetchContent:
		return fmt.Sprintf("fetch %s: non-html content", e.Domain)
	default:
		return fmt.Sprintf("fetch %s: %s: %v", e.Domain, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Normalization failure causes.
var (
	errEmptyHref         = errors.New("empty href")
	errFragmentOnly      = errors.New("fragment-only href")
	errUnsupportedScheme = errors.New("unsupported scheme")
	errEmptyHost         = errors.New("empty host")
)

// NormalizationError reports a href that does not resolve to an absolute
// http(s) URL with a host. Callers drop the link and continue.
type NormalizationError struct {
	Href string
	Err  error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %q: %v", e.Href, e.Err)
}

func (e *NormalizationError) Unwrap() error { return e.Err }
