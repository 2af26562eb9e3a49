package gossip

import (
	"sync"

	"github.com/mosaicnetworks/cascade/hash"
)

// fetchResult is what a pendingFetches waiter receives: the requested
// cell's canonical encoding, or the error that ended the wait.
type fetchResult struct {
	encoded []byte
	err     error
}

// pendingFetches tracks in-flight acquire-by-hash requests as the design
// notes prescribe: explicit state, an entry per in-flight request in a map
// from hash to a completion channel, filled in by whichever goroutine
// receives the matching DataReply — not a thread-local future or implicit
// continuation. Cancelling an acquire (the caller simply stops reading its
// channel and lets it be garbage collected) leaves the peer and store
// untouched, satisfying spec §5's cancellation guarantee for free.
type pendingFetches struct {
	mu      sync.Mutex
	waiters map[hash.Hash][]chan fetchResult
}

func newPendingFetches() *pendingFetches {
	return &pendingFetches{waiters: make(map[hash.Hash][]chan fetchResult)}
}

// Await registers interest in h and returns a buffered channel that
// receives its resolution exactly once. Concurrent Await calls for the
// same hash are coalesced: a single MissingData request in flight answers
// all of them when Resolve is called.
func (p *pendingFetches) Await(h hash.Hash) <-chan fetchResult {
	ch := make(chan fetchResult, 1)
	p.mu.Lock()
	p.waiters[h] = append(p.waiters[h], ch)
	p.mu.Unlock()
	return ch
}

// Pending reports whether a fetch for h is already in flight, so a caller
// about to issue a new MissingData request can instead just Await the
// existing one.
func (p *pendingFetches) Pending(h hash.Hash) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.waiters[h]) > 0
}

// Resolve delivers encoded (or err, if the fetch failed) to every waiter
// registered for h and clears them.
func (p *pendingFetches) Resolve(h hash.Hash, encoded []byte, err error) {
	p.mu.Lock()
	waiters := p.waiters[h]
	delete(p.waiters, h)
	p.mu.Unlock()
	for _, ch := range waiters {
		ch <- fetchResult{encoded: encoded, err: err}
	}
}
