package frontier

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/domgraph/domgraph/internal/crawler"
)

func TestSeedsArePreloadedAndDeduped(t *testing.T) {
	t.Parallel()

	f := New([]crawler.Domain{"a.com", "b.com", "a.com"}, 0)
	visited, pending, outstanding := f.Stats()
	require.Equal(t, 2, visited)
	require.Equal(t, 2, pending)
	require.Equal(t, 0, outstanding)

	d1, ok := f.ClaimNext()
	require.True(t, ok)
	d2, ok := f.ClaimNext()
	require.True(t, ok)
	require.ElementsMatch(t, []crawler.Domain{"a.com", "b.com"}, []crawler.Domain{d1, d2})
}

func TestEnqueueIfNewDedups(t *testing.T) {
	t.Parallel()

	f := New([]crawler.Domain{"seed.com"}, 0)
	require.True(t, f.EnqueueIfNew("new.com"))
	require.False(t, f.EnqueueIfNew("new.com"))
	require.False(t, f.EnqueueIfNew("seed.com"))
}

// Many goroutines race to schedule the same domain; exactly one call wins
// and exactly one claim of that domain is ever handed out.
func TestConcurrentEnqueueYieldsSingleClaim(t *testing.T) {
	t.Parallel()

	f := New([]crawler.Domain{"seed.com"}, 0)
	seed, ok := f.ClaimNext()
	require.True(t, ok)
	require.Equal(t, crawler.Domain("seed.com"), seed)

	const contenders = 64
	var scheduled atomic.Int64
	var wg sync.WaitGroup
	for range contenders {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.EnqueueIfNew("contested.com") {
				scheduled.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1), scheduled.Load())

	f.JobDone()

	var claims int
	for {
		d, ok := f.ClaimNext()
		if !ok {
			break
		}
		require.Equal(t, crawler.Domain("contested.com"), d)
		claims++
		f.JobDone()
	}
	require.Equal(t, 1, claims)
}

func TestClaimBlocksUntilWorkArrives(t *testing.T) {
	t.Parallel()

	f := New([]crawler.Domain{"seed.com"}, 0)
	_, ok := f.ClaimNext()
	require.True(t, ok)

	got := make(chan crawler.Domain, 1)
	go func() {
		d, ok := f.ClaimNext()
		if ok {
			got <- d
		}
	}()

	select {
	case d := <-got:
		t.Fatalf("claim returned %q before any enqueue", d)
	case <-time.After(50 * time.Millisecond):
	}

	require.True(t, f.EnqueueIfNew("late.com"))
	select {
	case d := <-got:
		require.Equal(t, crawler.Domain("late.com"), d)
	case <-time.After(time.Second):
		t.Fatal("claim did not observe the enqueue")
	}
}

// All blocked claimers must observe termination once the queue is drained
// and the last outstanding job finishes.
func TestTerminationReleasesAllClaimers(t *testing.T) {
	t.Parallel()

	f := New([]crawler.Domain{"only.com"}, 0)
	d, ok := f.ClaimNext()
	require.True(t, ok)
	require.Equal(t, crawler.Domain("only.com"), d)

	const workers = 8
	done := make(chan struct{})
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := f.ClaimNext()
			require.False(t, ok)
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	f.JobDone()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("claimers still blocked after final JobDone")
	}
}

func TestCloseUnblocksClaimers(t *testing.T) {
	t.Parallel()

	f := New([]crawler.Domain{"seed.com"}, 0)
	_, ok := f.ClaimNext()
	require.True(t, ok)

	returned := make(chan bool, 1)
	go func() {
		_, ok := f.ClaimNext()
		returned <- ok
	}()

	f.Close()
	select {
	case ok := <-returned:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("claimer still blocked after Close")
	}

	// Closed frontiers refuse new work and further claims.
	require.False(t, f.EnqueueIfNew("x.com"))
	_, ok = f.ClaimNext()
	require.False(t, ok)
}

func TestMaxDomainsCapsScheduling(t *testing.T) {
	t.Parallel()

	f := New([]crawler.Domain{"seed.com"}, 2)
	require.True(t, f.EnqueueIfNew("second.com"))
	require.False(t, f.EnqueueIfNew("third.com"))

	// Known domains still dedup rather than slip past the cap check.
	require.False(t, f.EnqueueIfNew("seed.com"))
}

// Simulated crawl over a small fixed link graph: every reachable domain is
// claimed exactly once and all workers terminate.
func TestFiniteGraphCrawlTerminates(t *testing.T) {
	t.Parallel()

	links := map[crawler.Domain][]crawler.Domain{
		"a.com": {"b.com", "c.com"},
		"b.com": {"c.com", "d.com", "a.com"},
		"c.com": {"a.com"},
		"d.com": {"e.com"},
		"e.com": {},
	}

	f := New([]crawler.Domain{"a.com"}, 0)

	var mu sync.Mutex
	claimed := make(map[crawler.Domain]int)

	const workers = 6
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				d, ok := f.ClaimNext()
				if !ok {
					return
				}
				mu.Lock()
				claimed[d]++
				mu.Unlock()
				for _, target := range links[d] {
					f.EnqueueIfNew(target)
				}
				f.JobDone()
			}
		}()
	}

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("crawl did not terminate")
	}

	require.Len(t, claimed, 5)
	for d, n := range claimed {
		require.Equalf(t, 1, n, "domain %s claimed %d times", d, n)
	}
}
