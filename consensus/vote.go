package consensus

import (
	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/hash"
)

// peerEntry is one peer's verified, stake-weighted vote: the Order it most
// recently signed, and the stake it held in the State consensus-point
// votes are snapshotted against (never the in-progress result of this same
// merge — see spec §4.5's Open Question decision on stake snapshotting).
type peerEntry struct {
	key   data.AccountKey
	order *data.Order
	stake int64
}

// gatherPeerEntries resolves every entry of orders into a peerEntry,
// dropping anything that does not verify: a forged signer, a signature that
// does not check out, or a payload that isn't an Order. Unverified entries
// never get to cast a vote.
func gatherPeerEntries(orders *data.HashMap, state *data.State) []peerEntry {
	mapEntries := orders.Entries()
	out := make([]peerEntry, 0, len(mapEntries))
	for _, e := range mapEntries {
		peerKey, ok := e.Key().Value().(data.AccountKey)
		if !ok {
			continue
		}
		_, order, ok := verifiedOrder(peerKey, e.Value())
		if !ok {
			continue
		}
		out = append(out, peerEntry{key: peerKey, order: order, stake: state.StakeOf(peerKey)})
	}
	return out
}

// candidateChain is one distinct chain proposed by some peer in entries,
// together with the key of whichever peer happened to be recorded as its
// first-seen owner (used only for the peer-key tie-break).
type candidateChain struct {
	blocks *data.Vector
	owner  data.AccountKey
	stake  int64
}

// selectWinningChain implements spec §4.5 step 1: for each distinct chain
// proposed across entries, sum the stake of every peer whose own chain
// shares that chain as a common prefix (i.e. that peer's vote "reaches" the
// whole candidate). Pick the longest chain whose supporting stake exceeds
// half of totalStake; ties broken first by final-block hash, then by peer
// key, both lexicographic. If no chain reaches a majority, fallback (the
// peer's own previous chain) is kept.
func selectWinningChain(entries []peerEntry, totalStake int64, fallback *data.Vector) *data.Vector {
	distinct := make(map[hash.Hash]candidateChain)
	for _, e := range entries {
		h := data.Hash(e.order.Blocks())
		if _, ok := distinct[h]; !ok {
			distinct[h] = candidateChain{blocks: e.order.Blocks(), owner: e.key}
		}
	}

	var candidates []candidateChain
	for _, c := range distinct {
		var stake int64
		for _, e := range entries {
			if data.CommonPrefixLength(e.order.Blocks(), c.blocks) == c.blocks.Count() {
				stake += e.stake
			}
		}
		if stake*2 > totalStake {
			c.stake = stake
			candidates = append(candidates, c)
		}
	}

	if len(candidates) == 0 {
		return fallback
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if chainBetter(c, best) {
			best = c
		}
	}
	return best.blocks
}

// chainBetter reports whether a should be preferred over b: longer wins;
// on a length tie, the smaller final-block hash wins; on a hash tie (which
// in practice only happens when a and b are the same chain), the smaller
// peer key wins.
func chainBetter(a, b candidateChain) bool {
	if a.blocks.Count() != b.blocks.Count() {
		return a.blocks.Count() > b.blocks.Count()
	}
	ha, hb := finalBlockHash(a.blocks), finalBlockHash(b.blocks)
	if !ha.Equals(hb) {
		return ha.Less(hb)
	}
	return a.owner.Less(b.owner)
}

func finalBlockHash(v *data.Vector) hash.Hash {
	if v.Count() == 0 {
		return hash.Hash{}
	}
	return v.Last().Hash()
}

// reconcileOwnBlocks adopts winner as the peer's new chain, per spec §4.5
// step 2: Winner replaces self.blocks unless doing so would cut below
// consensusPoint (consensus is final, never undone), and any of the peer's
// own pending blocks that fell outside Winner are re-appended at the tail
// so they remain candidates for a future round rather than being lost.
func reconcileOwnBlocks(prevBlocks, winner *data.Vector, consensusPoint int64) *data.Vector {
	prefixLen := data.CommonPrefixLength(prevBlocks, winner)
	if winner.Count() < consensusPoint || prefixLen < consensusPoint {
		winner = prevBlocks
		prefixLen = prevBlocks.Count()
	}
	result := winner
	for i := prefixLen; i < prevBlocks.Count(); i++ {
		result = result.Conj(prevBlocks.Get(i))
	}
	return result
}

// advanceProposalPoint implements spec §4.5 step 3: the largest L between
// floor and blocks.Count() for which the stake of peers sharing at least an
// L-length common prefix with blocks exceeds two-thirds of totalStake.
// floor is the peer's previous proposalPoint, clamped to blocks.Count() so
// the result always satisfies Order's proposalPoint <= blocks.count
// invariant even in the (Byzantine-excluded) case of an adopted chain
// shorter than what was previously proposed.
func advanceProposalPoint(entries []peerEntry, blocks *data.Vector, totalStake, floor int64) int64 {
	if floor > blocks.Count() {
		floor = blocks.Count()
	}
	for L := blocks.Count(); L > floor; L-- {
		var stake int64
		for _, e := range entries {
			if data.CommonPrefixLength(e.order.Blocks(), blocks) >= L {
				stake += e.stake
			}
		}
		if stake*3 > totalStake*2 {
			return L
		}
	}
	return floor
}

// advanceConsensusPoint implements spec §4.5 step 4: the largest L between
// floor and proposalPoint for which the stake of peers whose own Order has
// proposalPoint >= L and shares an L-length common prefix with blocks
// exceeds two-thirds of totalStake.
func advanceConsensusPoint(entries []peerEntry, blocks *data.Vector, proposalPoint, totalStake, floor int64) int64 {
	for L := proposalPoint; L > floor; L-- {
		var stake int64
		for _, e := range entries {
			if e.order.ProposalPoint() >= L && data.CommonPrefixLength(e.order.Blocks(), blocks) >= L {
				stake += e.stake
			}
		}
		if stake*3 > totalStake*2 {
			return L
		}
	}
	return floor
}
