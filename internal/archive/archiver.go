package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/hash/sha256"
)

// PageMetadata is the JSON document stored next to each page body.
type PageMetadata struct {
	RunID       string    `json:"run_id"`
	Domain      string    `json:"domain"`
	FinalURL    string    `json:"final_url"`
	StatusCode  int       `json:"status_code"`
	ContentType string    `json:"content_type"`
	Title       string    `json:"title,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
	DurationMS  int64     `json:"duration_ms"`
	BodyBytes   int       `json:"body_bytes"`
	BodySHA256  string    `json:"body_sha256"`
}

// Archiver writes page snapshots through a Provider, one directory per
// domain under the run ID. Domains are fetched at most once per run, so the
// layout never collides.
type Archiver struct {
	provider Provider
	runID    string
}

// NewArchiver constructs an Archiver for one crawl run.
func NewArchiver(provider Provider, runID string) *Archiver {
	return &Archiver{provider: provider, runID: runID}
}

// SavePage stores the page body and its metadata under <run>/<domain>/.
func (a *Archiver) SavePage(ctx context.Context, page *crawler.Page, title string) error {
	base := path.Join(a.runID, string(page.Domain))

	if err := a.provider.Save(ctx, path.Join(base, "page.html"), page.Body); err != nil {
		return fmt.Errorf("save page body: %w", err)
	}

	meta := PageMetadata{
		RunID:       a.runID,
		Domain:      string(page.Domain),
		FinalURL:    page.FinalURL,
		StatusCode:  page.StatusCode,
		ContentType: page.ContentType,
		Title:       title,
		FetchedAt:   page.FetchedAt,
		DurationMS:  page.Duration.Milliseconds(),
		BodyBytes:   len(page.Body),
		BodySHA256:  sha256.Sum(page.Body),
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshal page metadata: %w", err)
	}
	if err := a.provider.Save(ctx, path.Join(base, "metadata.json"), raw); err != nil {
		return fmt.Errorf("save page metadata: %w", err)
	}
	return nil
}
