// Package frontier owns the crawl's pending-work queue and visited set.
package frontier

import (
	"sync"

	"github.com/domgraph/domgraph/internal/crawler"
)

// Frontier is the single authority over which domains have been scheduled
// and which are still waiting to be fetched. Workers interact with it only
// through EnqueueIfNew, ClaimNext, and JobDone; a claim/JobDone pair
// brackets one unit of work. Termination is "queue empty AND nothing
// outstanding", never "queue empty" alone: an in-flight worker may still
// enqueue what it discovers.
type Frontier struct {
	mu          sync.Mutex
	cond        *sync.Cond
	pending     []crawler.Domain
	visited     map[crawler.Domain]struct{}
	outstanding int
	maxDomains  int
	closed      bool
}

// New builds a Frontier with the visited set and queue preloaded with the
// seeds (duplicates collapse). maxDomains, when positive, caps how many
// domains the run may ever schedule; it bounds crawl breadth, not edge
// recording.
func New(seeds []crawler.Domain, maxDomains int) *Frontier {
	f := &Frontier{
		visited:    make(map[crawler.Domain]struct{}, len(seeds)),
		maxDomains: maxDomains,
	}
	f.cond = sync.NewCond(&f.mu)
	for _, s := range seeds {
		if _, ok := f.visited[s]; ok {
			continue
		}
		f.visited[s] = struct{}{}
		f.pending = append(f.pending, s)
	}
	return f
}

// EnqueueIfNew atomically checks the visited set and schedules d when it has
// never been seen. Returns true only for the call that scheduled it.
func (f *Frontier) EnqueueIfNew(d crawler.Domain) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	if _, ok := f.visited[d]; ok {
		return false
	}
	if f.maxDomains > 0 && len(f.visited) >= f.maxDomains {
		return false
	}
	f.visited[d] = struct{}{}
	f.pending = append(f.pending, d)
	f.cond.Signal()
	return true
}

// ClaimNext blocks until a domain is available or the crawl is over. The
// boolean is false on termination: the frontier was closed, or the queue
// drained with no outstanding job left to refill it.
func (f *Frontier) ClaimNext() (crawler.Domain, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		if f.closed {
			return "", false
		}
		if len(f.pending) > 0 {
			d := f.pending[0]
			f.pending = f.pending[1:]
			f.outstanding++
			return d, true
		}
		if f.outstanding == 0 {
			// Drained for good. Wake the other sleepers so every
			// worker observes termination, not just this one.
			f.cond.Broadcast()
			return "", false
		}
		f.cond.Wait()
	}
}

// JobDone marks one claimed job finished. The last JobDone against an empty
// queue releases every blocked claimer.
func (f *Frontier) JobDone() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outstanding > 0 {
		f.outstanding--
	}
	if f.outstanding == 0 && len(f.pending) == 0 {
		f.cond.Broadcast()
	}
}

// Close makes every current and future ClaimNext report termination,
// whatever the queue holds. Idempotent; used on cancellation.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}

// Stats reports visited, pending, and outstanding sizes for logs and gauges.
func (f *Frontier) Stats() (visited, pending, outstanding int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited), len(f.pending), f.outstanding
}
