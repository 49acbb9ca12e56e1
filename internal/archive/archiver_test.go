package archive_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domgraph/domgraph/internal/archive"
	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/hash/sha256"
)

func testPage() *crawler.Page {
	return &crawler.Page{
		Domain:      "example.com",
		FinalURL:    "https://example.com/",
		StatusCode:  200,
		ContentType: "text/html; charset=utf-8",
		Body:        []byte("<html><head><title>Example</title></head></html>"),
		FetchedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Duration:    230 * time.Millisecond,
	}
}

func TestSavePageWritesBodyAndMetadata(t *testing.T) {
	t.Parallel()

	provider := &capturingProvider{objects: map[string][]byte{}}
	archiver := archive.NewArchiver(provider, "run-1")

	page := testPage()
	require.NoError(t, archiver.SavePage(context.Background(), page, "Example"))

	body, ok := provider.objects["run-1/example.com/page.html"]
	require.True(t, ok, "expected page body object, got %v", provider.names())
	assert.Equal(t, page.Body, body)

	raw, ok := provider.objects["run-1/example.com/metadata.json"]
	require.True(t, ok, "expected metadata object, got %v", provider.names())

	var meta archive.PageMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "run-1", meta.RunID)
	assert.Equal(t, "example.com", meta.Domain)
	assert.Equal(t, "https://example.com/", meta.FinalURL)
	assert.Equal(t, 200, meta.StatusCode)
	assert.Equal(t, "Example", meta.Title)
	assert.Equal(t, int64(230), meta.DurationMS)
	assert.Equal(t, len(page.Body), meta.BodyBytes)
	assert.Equal(t, sha256.Sum(page.Body), meta.BodySHA256)
}

func TestSavePagePropagatesProviderError(t *testing.T) {
	t.Parallel()

	provider := &capturingProvider{
		objects: map[string][]byte{},
		saveErr: errors.New("bucket gone"),
	}
	archiver := archive.NewArchiver(provider, "run-1")

	err := archiver.SavePage(context.Background(), testPage(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save page body")
}

func TestNoOpProviderAcceptsEverything(t *testing.T) {
	t.Parallel()

	provider := &archive.NoOpProvider{}
	require.NoError(t, provider.Save(context.Background(), "anything", []byte("data")))
	require.NoError(t, provider.Close())

	archiver := archive.NewArchiver(provider, "run-1")
	require.NoError(t, archiver.SavePage(context.Background(), testPage(), "Example"))
}

// --- fakes ---

type capturingProvider struct {
	objects map[string][]byte
	saveErr error
}

func (p *capturingProvider) Save(_ context.Context, objectName string, data []byte) error {
	if p.saveErr != nil {
		return p.saveErr
	}
	p.objects[objectName] = append([]byte(nil), data...)
	return nil
}

func (p *capturingProvider) Close() error { return nil }

func (p *capturingProvider) names() []string {
	out := make([]string, 0, len(p.objects))
	for name := range p.objects {
		out = append(out, name)
	}
	return out
}
