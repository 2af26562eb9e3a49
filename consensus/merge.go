package consensus

import (
	"github.com/sirupsen/logrus"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/internal/errs"
)

var errNoSelfOrder = errs.New(errs.InvalidData, "consensus: peer has no order for its own key")

// verifiedOrder resolves ref's SignedData and checks that it was signed by
// key and wraps an Order; a failure anywhere in that chain means the entry
// does not get to participate in belief-merge.
func verifiedOrder(key data.AccountKey, ref data.Ref) (*data.SignedData, *data.Order, bool) {
	signed, ok := ref.Value().(*data.SignedData)
	if !ok || signed.Signer() != key || !signed.Verify() {
		return nil, nil, false
	}
	order, ok := signed.Value().Value().(*data.Order)
	if !ok {
		return nil, nil, false
	}
	return signed, order, true
}

// pickLatestValidOrder is the combining function MergeBeliefs folds every
// received Belief's orders map through: it keeps the candidate (vb) over
// the running result (va) only if vb verifies and its timestamp and
// consensusPoint do not regress relative to va — an Order from p is
// discarded if it fails signature verification, or if its consensusPoint
// or timestamp is less than what was already observed for p (spec §4.5's
// Open Question decisions on discarding regressions).
func pickLatestValidOrder(key data.Cell, va data.Ref, aOK bool, vb data.Ref, bOK bool) (data.Ref, bool) {
	if !bOK {
		return va, aOK
	}
	peerKey, ok := key.(data.AccountKey)
	if !ok {
		return va, aOK
	}
	_, candidate, ok := verifiedOrder(peerKey, vb)
	if !ok {
		return va, aOK
	}
	if !aOK {
		return vb, true
	}
	_, current, ok := verifiedOrder(peerKey, va)
	if !ok {
		return vb, true
	}
	if candidate.Timestamp() < current.Timestamp() || candidate.ConsensusPoint() < current.ConsensusPoint() {
		return va, true
	}
	return vb, true
}

// combineOrders folds every received Belief's orders map into selfOrders,
// via pickLatestValidOrder, skipping any subtree the two maps already
// share (HashMap.MergeDifferences' hash-equality fast path).
func combineOrders(selfOrders *data.HashMap, received []*data.Belief) *data.HashMap {
	combined := selfOrders
	for _, b := range received {
		if b == nil {
			continue
		}
		combined = data.MergeDifferences(combined, b.Orders(), pickLatestValidOrder)
	}
	return combined
}

// MergeBeliefs is the core belief-merge algorithm of spec §4.5: it folds
// received into the peer's own Belief, selects the winning chain by
// stake-weighted vote, advances this peer's proposalPoint and
// consensusPoint, re-signs its own Order, and — if consensusPoint advanced
// — applies the newly consensed blocks to the peer's consensus State.
func (p *Peer) MergeBeliefs(received []*data.Belief, now int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	selfKey := p.AccountKey()
	combined := combineOrders(p.belief.Orders(), received)

	selfRef, ok := combined.Get(selfKey)
	if !ok {
		return errNoSelfOrder
	}
	_, selfOrder, ok := verifiedOrder(selfKey, selfRef)
	if !ok {
		return errNoSelfOrder
	}

	// Stake is snapshotted at the consensus State as it stood before this
	// merge, never at any state this same merge might go on to derive.
	totalStake := p.consensusState.TotalStake()
	entries := gatherPeerEntries(combined, p.consensusState)

	winner := selectWinningChain(entries, totalStake, selfOrder.Blocks())
	newBlocks := reconcileOwnBlocks(selfOrder.Blocks(), winner, selfOrder.ConsensusPoint())

	newProposal := advanceProposalPoint(entries, newBlocks, totalStake, selfOrder.ProposalPoint())
	newConsensus := advanceConsensusPoint(entries, newBlocks, newProposal, totalStake, selfOrder.ConsensusPoint())

	newTimestamp := maxInt64(selfOrder.Timestamp(), now)
	newOrder := data.NewOrder(newBlocks, newProposal, newConsensus, newTimestamp)
	signed := p.keys.Sign(newOrder)

	newOrders := combined.Assoc(selfKey, data.EmbedRef(signed))
	p.belief = data.NewBelief(newOrders, maxInt64(p.belief.Timestamp(), now))

	p.logger.WithFields(logrus.Fields{
		"blocks":         newBlocks.Count(),
		"proposalPoint":  newProposal,
		"consensusPoint": newConsensus,
		"peers":          len(entries),
	}).Debug("merged beliefs")

	if newConsensus > selfOrder.ConsensusPoint() {
		return p.catchUpLocked(newBlocks, selfOrder.ConsensusPoint(), newConsensus)
	}
	return nil
}
