// Package crawler holds the domain-graph crawl primitives: URL
// normalization, the colly fetcher, link extraction, the scheduling
// blocklist, and the interfaces the pipeline packages are wired through.
package crawler
