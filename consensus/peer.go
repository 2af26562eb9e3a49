// Package consensus implements belief-merge: the deterministic algorithm by
// which a Peer folds other peers' Beliefs into its own, converging on a
// common ordering of blocks and advancing consensus without a leader or a
// voting round, per spec §4.5.
package consensus

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/internal/logging"
	"github.com/mosaicnetworks/cascade/pki"
)

// Peer is one participant in belief-merge consensus: its signing identity,
// its current Belief (the latest Order observed from every peer it knows
// about), the State its consensusPoint has advanced to, and a history of
// every past consensus State so a lagging peer can be served whatever
// prefix it is missing.
type Peer struct {
	mu sync.Mutex

	keys *pki.KeyPair

	belief *data.Belief

	consensusState *data.State
	// stateHistory maps a consensus-point index, carried as a data.Address,
	// to the State immediately after that many blocks had been applied.
	// Index 0 is genesis.
	stateHistory *data.BlobMap

	store data.Store

	logger *logrus.Entry
}

// NewPeer builds a Peer at genesis: an empty Order signed by keys, and a
// state history containing only genesis at index 0.
func NewPeer(keys *pki.KeyPair, genesis *data.State, store data.Store, logger *logrus.Logger) *Peer {
	if genesis == nil {
		genesis = data.NewState(nil, nil, nil, nil)
	}
	if logger == nil {
		logger = logging.Default()
	}

	selfKey := keys.AccountKey()
	order := data.NewOrder(data.EmptyVector, 0, 0, 0)
	signed := keys.Sign(order)

	orders := data.EmptyHashMap.Assoc(selfKey, data.EmbedRef(signed))
	belief := data.NewBelief(orders, 0)

	history := data.EmptyBlobMap.Assoc(data.Address(0), data.EmbedRef(genesis))

	return &Peer{
		keys:           keys,
		belief:         belief,
		consensusState: genesis,
		stateHistory:   history,
		store:          store,
		logger:         logging.WithComponent(logger, "consensus").WithField("peer", selfKey.ToHexString(6)),
	}
}

// AccountKey returns this peer's public identity.
func (p *Peer) AccountKey() data.AccountKey { return p.keys.AccountKey() }

// Store returns the peer's cell store, for transport-layer code that needs
// to serve or satisfy MissingData requests on this peer's behalf.
func (p *Peer) Store() data.Store { return p.store }

// Belief returns the peer's current Belief.
func (p *Peer) Belief() *data.Belief {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.belief
}

// ConsensusState returns the State derived from every block up to the
// peer's current consensusPoint.
func (p *Peer) ConsensusState() *data.State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.consensusState
}

// StateAt returns the historical State at consensus-point index, and
// whether it is known locally.
func (p *Peer) StateAt(index int64) (*data.State, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	ref, ok := p.stateHistory.Get(data.Address(index))
	if !ok {
		return nil, false
	}
	state, ok := ref.Value().(*data.State)
	return state, ok
}

// Order returns peerKey's latest known signed Order, and whether one is
// present in this peer's Belief.
func (p *Peer) Order(peerKey data.AccountKey) (*data.Order, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.orderLocked(peerKey)
}

func (p *Peer) orderLocked(peerKey data.AccountKey) (*data.Order, bool) {
	ref, ok := p.belief.Orders().Get(peerKey)
	if !ok {
		return nil, false
	}
	_, order, ok := verifiedOrder(peerKey, ref)
	return order, ok
}

// ProposeBlock appends a new Block carrying txs, signed by this peer, to
// its own Order. The block is not yet consensed by anyone else; it becomes
// a candidate the next time this peer's Belief is merged and gossiped.
func (p *Peer) ProposeBlock(txs []*data.SignedData, now int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	selfKey := p.AccountKey()
	order, ok := p.orderLocked(selfKey)
	if !ok {
		return errNoSelfOrder
	}

	txRefs := make([]data.Ref, len(txs))
	for i, tx := range txs {
		txRefs[i] = data.EmbedRef(tx)
	}
	block := data.NewBlock(now, selfKey, data.VectorOf(txRefs...))

	newBlocks := order.Blocks().Conj(data.EmbedRef(block))
	newOrder := order.WithBlocks(newBlocks).WithTimestamp(maxInt64(order.Timestamp(), now))
	signed := p.keys.Sign(newOrder)

	newOrders := p.belief.Orders().Assoc(selfKey, data.EmbedRef(signed))
	p.belief = data.NewBelief(newOrders, maxInt64(p.belief.Timestamp(), now))

	p.logger.WithFields(logrus.Fields{
		"blocks": newBlocks.Count(),
		"txs":    len(txs),
	}).Debug("proposed block")
	return nil
}

// UpdateTimestamp advances the peer's Belief timestamp to now, a no-op if
// now does not exceed the current timestamp; timestamps never decrease.
func (p *Peer) UpdateTimestamp(now int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if now > p.belief.Timestamp() {
		p.belief = p.belief.WithTimestamp(now)
	}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
