package consensus

import (
	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/executor"
	"github.com/mosaicnetworks/cascade/internal/errs"
)

// catchUpLocked applies blocks[prev, new) in order to the peer's consensus
// State, recording the State after each block into stateHistory, per spec
// §4.5 step 6. Callers hold p.mu.
func (p *Peer) catchUpLocked(blocks *data.Vector, prev, new int64) error {
	state := p.consensusState
	for i := prev; i < new; i++ {
		cell, err := blocks.Get(i).Resolve(p.store)
		if err != nil {
			return err
		}
		block, ok := cell.(*data.Block)
		if !ok {
			return errs.Newf(errs.BadFormat, "consensus: order entry at index %d is not a block", i)
		}
		next, err := executor.ApplyBlock(block, state, p.store)
		if err != nil {
			return err
		}
		state = next
		p.stateHistory = p.stateHistory.Assoc(data.Address(i+1), data.EmbedRef(state))
	}
	p.consensusState = state
	return nil
}
