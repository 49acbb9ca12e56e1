// Package archive persists fetched page snapshots. Each archived page is two
// objects: the raw HTML body and a JSON metadata document describing the
// fetch. The abstraction allows the crawler to be independent of a specific
// storage implementation (e.g., Google Cloud Storage or the local
// filesystem).
package archive

import (
	"context"
)

// Provider defines the common interface for a blob storage backend.
type Provider interface {
	// Save uploads data to a specified object path/key in the blob store.
	Save(ctx context.Context, objectName string, data []byte) error
	// Close releases any resources held by the provider.
	Close() error
}

// NoOpProvider discards everything. It backs archive.provider=none, where
// pages are fetched for their links only.
type NoOpProvider struct{}

// Save for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Save(_ context.Context, _ string, _ []byte) error {
	return nil
}

// Close for NoOpProvider does nothing and always returns nil.
func (n *NoOpProvider) Close() error {
	return nil
}
