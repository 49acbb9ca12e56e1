// Package graph persists and queries the domain link graph.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/domgraph/domgraph/internal/crawler"
	"github.com/domgraph/domgraph/internal/metrics"
)

const (
	defaultBufferSize = 256
	upsertTimeout     = 10 * time.Second
)

// ErrClosed is returned by Submit once the writer has begun shutdown.
var ErrClosed = errors.New("graph writer closed")

// Writer is the single owner of edge persistence. Workers hand edges to
// Submit; one background goroutine applies them to the store in arrival
// order, so concurrent increments to the same pair can never lose updates,
// whatever the store's own atomicity.
type Writer struct {
	store  crawler.EdgeStore
	edges  chan crawler.Edge
	stopCh chan struct{}
	doneCh chan struct{}
	logger *zap.Logger

	closeOnce sync.Once
	closed    atomic.Bool

	submitted atomic.Int64
	written   atomic.Int64
	failed    atomic.Int64
}

// NewWriter starts the writer goroutine. bufferSize bounds how far workers
// can run ahead of the store; Submit blocks once the buffer is full rather
// than dropping, because dropped edges would corrupt counts.
func NewWriter(store crawler.EdgeStore, bufferSize int, logger *zap.Logger) *Writer {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	w := &Writer{
		store:  store,
		edges:  make(chan crawler.Edge, bufferSize),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		logger: logger.Named("writer"),
	}
	go w.run()
	return w
}

// Submit hands an edge to the writer, blocking while the buffer is full.
// It fails only when the writer is already closed or ctx ends first; in
// either case the edge is not recorded.
func (w *Writer) Submit(ctx context.Context, e crawler.Edge) error {
	if w.closed.Load() {
		return ErrClosed
	}
	select {
	case w.edges <- e:
		w.submitted.Add(1)
		metrics.ObserveEdgeSubmitted()
		return nil
	case <-ctx.Done():
		return fmt.Errorf("submit edge: %w", ctx.Err())
	}
}

// Close stops intake, applies every edge already submitted, and returns once
// the store has seen them all. Call it after the submitters have finished;
// ctx bounds the wait. Safe to call more than once.
func (w *Writer) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		w.closed.Store(true)
		close(w.stopCh)
	})
	select {
	case <-w.doneCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("graph writer close wait: %w", ctx.Err())
	}
}

// Stats reports submitted, written, and failed edge totals.
func (w *Writer) Stats() (submitted, written, failed int64) {
	return w.submitted.Load(), w.written.Load(), w.failed.Load()
}

func (w *Writer) run() {
	defer close(w.doneCh)
	for {
		select {
		case e := <-w.edges:
			w.apply(e)
		case <-w.stopCh:
			w.drain()
			return
		}
	}
}

// drain applies everything buffered at shutdown.
func (w *Writer) drain() {
	for {
		select {
		case e := <-w.edges:
			w.apply(e)
		default:
			return
		}
	}
}

// apply runs one upsert. Failures are logged and counted, never fatal: a
// lost edge costs one count in a best-effort aggregate.
func (w *Writer) apply(e crawler.Edge) {
	ctx, cancel := context.WithTimeout(context.Background(), upsertTimeout)
	defer cancel()

	if err := w.store.UpsertEdgeIncrement(ctx, string(e.Source), string(e.Target)); err != nil {
		w.failed.Add(1)
		metrics.ObserveEdgeWriteFailure()
		w.logger.Warn("edge write failed",
			zap.String("source", string(e.Source)),
			zap.String("target", string(e.Target)),
			zap.Error(err))
		return
	}
	w.written.Add(1)
	metrics.ObserveEdgeWritten()
}
