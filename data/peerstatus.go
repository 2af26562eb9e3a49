package data

// PeerStatus is a peer's entry in State's peer map: the stake weight that
// gives it a voting weight in belief-merge's winning-chain and cut-point
// advancement rules.
type PeerStatus struct {
	peerKey AccountKey
	stake   int64
}

// NewPeerStatus builds a PeerStatus for peerKey with the given stake.
func NewPeerStatus(peerKey AccountKey, stake int64) *PeerStatus {
	return &PeerStatus{peerKey: peerKey, stake: stake}
}

func (p *PeerStatus) PeerKey() AccountKey { return p.peerKey }
func (p *PeerStatus) Stake() int64        { return p.stake }

// WithStake returns a copy of p with a new stake.
func (p *PeerStatus) WithStake(stake int64) *PeerStatus {
	return &PeerStatus{peerKey: p.peerKey, stake: stake}
}

func (p *PeerStatus) RecordTag() byte { return RecordPeerStatus }
func (p *PeerStatus) Tag() byte       { return TagRecord }

func (p *PeerStatus) WriteBody(w *Writer) {
	w.WriteRaw(p.peerKey[:])
	w.WriteSVLQ(p.stake)
}

func (p *PeerStatus) RefCount() int                   { return 0 }
func (p *PeerStatus) GetRef(i int) Ref                { panic("data: GetRef on PeerStatus") }
func (p *PeerStatus) UpdateRefs(f func(Ref) Ref) Cell { return p }
func (p *PeerStatus) Validate() error {
	if p.stake < 0 {
		return badFormat("peer status: negative stake %d", p.stake)
	}
	return nil
}

func decodePeerStatus(r *Reader) (Cell, error) {
	keyB, err := r.ReadRaw(32)
	if err != nil {
		return nil, err
	}
	stake, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	var key AccountKey
	copy(key[:], keyB)
	p := &PeerStatus{peerKey: key, stake: stake}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
