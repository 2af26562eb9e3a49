package gossip

import (
	"math/rand"
	"sync"

	"github.com/mosaicnetworks/cascade/data"
)

// Selector picks which peers to gossip to on a given round: a uniformly
// random subset of the known peer set, the same shape as the teacher's
// node.RandomPeerSelector, keyed on data.AccountKey rather than a
// transport address since gossip here addresses peers by identity — the
// Hub resolves a key to a WAMP procedure URI, not a socket address.
type Selector struct {
	mu    sync.Mutex
	peers []data.AccountKey
	last  data.AccountKey
}

// NewSelector builds a Selector over the given known peers, excluding self
// (a peer never gossips to itself).
func NewSelector(peers []data.AccountKey, self data.AccountKey) *Selector {
	cp := make([]data.AccountKey, 0, len(peers))
	for _, p := range peers {
		if p != self {
			cp = append(cp, p)
		}
	}
	return &Selector{peers: cp}
}

// AddPeer adds a newly discovered peer to the selectable set, a no-op if
// already present.
func (s *Selector) AddPeer(key data.AccountKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.peers {
		if p == key {
			return
		}
	}
	s.peers = append(s.peers, key)
}

// Peers returns the current selectable set.
func (s *Selector) Peers() []data.AccountKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]data.AccountKey, len(s.peers))
	copy(out, s.peers)
	return out
}

// UpdateLast records key as the most recently contacted peer, so the next
// Select call can avoid repeating it back to back.
func (s *Selector) UpdateLast(key data.AccountKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = key
}

// Select returns up to fanout distinct peers chosen uniformly at random
// from the known set, per spec §8 Scenario 3's gossipFanout. When the pool
// has more than one candidate, the most recently contacted peer is
// excluded so a round never immediately repeats its predecessor.
func (s *Selector) Select(fanout int) []data.AccountKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	pool := s.peers
	if len(pool) > 1 {
		filtered := make([]data.AccountKey, 0, len(pool))
		for _, p := range pool {
			if p != s.last {
				filtered = append(filtered, p)
			}
		}
		pool = filtered
	}
	if len(pool) == 0 {
		return nil
	}

	shuffled := make([]data.AccountKey, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	if fanout > len(shuffled) || fanout < 0 {
		fanout = len(shuffled)
	}
	return shuffled[:fanout]
}
