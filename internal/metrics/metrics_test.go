package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitIsIdempotent(t *testing.T) {
	Init()
	Init()

	// None of the helpers may panic, initialized or not.
	ObserveFetch()
	ObserveFetchError("timeout")
	ObserveLinksExtracted(3)
	ObserveLinkDropped()
	ObserveEdgeSubmitted()
	ObserveEdgeWriteFailure()
	SetFrontierPending(7)
	IncActiveWorkers()
	DecActiveWorkers()
}

func TestObserveEdgeWrittenCounts(t *testing.T) {
	Init()

	before := testutil.ToFloat64(edgesWrittenTotal)
	ObserveEdgeWritten()
	ObserveEdgeWritten()
	require.Equal(t, before+2, testutil.ToFloat64(edgesWrittenTotal))
}

func TestServerRoutes(t *testing.T) {
	s := NewServer("127.0.0.1:0", zap.NewNop())

	rec := httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	require.Equal(t, 200, rec.Code)
	require.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	s.srv.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "domgraph_domains_fetched_total")
}
