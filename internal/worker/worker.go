// Package worker implements the per-domain crawl pipeline.
package worker

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/metrics"
)

// Worker claims domains from the frontier and runs each through the fetch,
// archive, extract, and record pipeline. A failing domain is logged and
// abandoned; nothing a single domain does can take the worker down.
type Worker struct {
	id        int
	frontier  crawler.Frontier
	fetcher   crawler.Fetcher
	extractor crawler.Extractor
	edges     crawler.EdgeSink
	archiver  crawler.PageArchiver
	blocklist *crawler.Blocklist
	logger    *zap.Logger
}

// New constructs a Worker. A nil blocklist blocks nothing.
func New(
	id int,
	frontier crawler.Frontier,
	fetcher crawler.Fetcher,
	extractor crawler.Extractor,
	edges crawler.EdgeSink,
	archiver crawler.PageArchiver,
	blocklist *crawler.Blocklist,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		id:        id,
		frontier:  frontier,
		fetcher:   fetcher,
		extractor: extractor,
		edges:     edges,
		archiver:  archiver,
		blocklist: blocklist,
		logger:    logger.With(zap.Int("worker", id)),
	}
}

// Run blocks, claiming domains until the frontier reports termination.
// Every claim is matched by a JobDone whatever happens in between; the
// termination protocol depends on that pairing.
func (w *Worker) Run(ctx context.Context) {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()

	for {
		d, ok := w.frontier.ClaimNext()
		if !ok {
			return
		}
		w.process(ctx, d)
		w.frontier.JobDone()
	}
}

func (w *Worker) process(ctx context.Context, d crawler.Domain) {
	page, err := w.fetcher.Fetch(ctx, d)
	if err != nil {
		metrics.ObserveFetchError(fetchKind(err))
		w.logger.Warn("fetch failed", zap.String("domain", string(d)), zap.Error(err))
		return
	}
	metrics.ObserveFetch()
	w.logger.Debug("fetched",
		zap.String("domain", string(d)),
		zap.Int("status", page.StatusCode),
		zap.Int("bytes", len(page.Body)))

	// Archiving is best effort: a snapshot that cannot be stored never
	// costs the crawl its edges.
	title := w.extractor.Title(page.Body, page.ContentType)
	if err := w.archiver.SavePage(ctx, page, title); err != nil {
		w.logger.Warn("archive failed", zap.String("domain", string(d)), zap.Error(err))
	}

	extracted := 0
	for raw := range w.extractor.Links(page.Body, page.ContentType) {
		extracted++
		target, err := crawler.Normalize(raw, page.FinalURL)
		if err != nil {
			metrics.ObserveLinkDropped()
			continue
		}
		// Record the edge before scheduling: every occurrence counts,
		// even for domains already visited.
		if err := w.edges.Submit(ctx, crawler.Edge{Source: d, Target: target}); err != nil {
			w.logger.Debug("edge submit stopped", zap.String("domain", string(d)), zap.Error(err))
			return
		}
		// Blocked domains keep their incoming edges but are never fetched.
		if w.blocklist.Blocked(target) {
			continue
		}
		w.frontier.EnqueueIfNew(target)
	}
	metrics.ObserveLinksExtracted(extracted)
	w.logger.Debug("page processed", zap.String("domain", string(d)), zap.Int("links", extracted))
}

func fetchKind(err error) string {
	var fe *crawler.FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}
	return string(crawler.FetchNetwork)
}
