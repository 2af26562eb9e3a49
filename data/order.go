package data

// Order is one peer's proposed ordering of blocks together with its
// proposal and consensus cut points, per spec §4.1: a valid Order always
// satisfies 0 <= consensusPoint <= proposalPoint <= blocks.count.
type Order struct {
	blocks         Ref // *Vector of Ref to *Block
	proposalPoint  int64
	consensusPoint int64
	timestamp      int64
}

// NewOrder builds an Order, panicking if the cut-point invariant is
// violated — callers construct Orders from already-validated state, never
// from untrusted input (that path goes through Decode, which calls
// Validate instead of panicking).
func NewOrder(blocks *Vector, proposalPoint, consensusPoint, timestamp int64) *Order {
	if blocks == nil {
		blocks = EmptyVector
	}
	o := &Order{blocks: EmbedRef(blocks), proposalPoint: proposalPoint, consensusPoint: consensusPoint, timestamp: timestamp}
	if err := o.Validate(); err != nil {
		panic("data: " + err.Error())
	}
	return o
}

// Blocks returns the embedded blocks vector. Panics if the ref is indirect;
// Sign always embeds an Order's payload whole (see data.Sign), so a
// SignedData-wrapped Order decoded off the wire always satisfies this.
func (o *Order) Blocks() *Vector { return o.blocks.value.(*Vector) }

func (o *Order) ProposalPoint() int64  { return o.proposalPoint }
func (o *Order) ConsensusPoint() int64 { return o.consensusPoint }
func (o *Order) Timestamp() int64      { return o.timestamp }

// WithBlocks returns a copy of o with a new blocks vector, cut points
// unchanged; callers are responsible for re-validating if the new vector
// could shrink below consensusPoint.
func (o *Order) WithBlocks(blocks *Vector) *Order {
	return &Order{blocks: EmbedRef(blocks), proposalPoint: o.proposalPoint, consensusPoint: o.consensusPoint, timestamp: o.timestamp}
}

// WithCutPoints returns a copy of o with new proposal/consensus points.
func (o *Order) WithCutPoints(proposalPoint, consensusPoint int64) *Order {
	return &Order{blocks: o.blocks, proposalPoint: proposalPoint, consensusPoint: consensusPoint, timestamp: o.timestamp}
}

// WithTimestamp returns a copy of o with a new timestamp.
func (o *Order) WithTimestamp(ts int64) *Order {
	return &Order{blocks: o.blocks, proposalPoint: o.proposalPoint, consensusPoint: o.consensusPoint, timestamp: ts}
}

func (o *Order) RecordTag() byte { return RecordOrder }
func (o *Order) Tag() byte       { return TagRecord }

func (o *Order) WriteBody(w *Writer) {
	w.WriteRef(o.blocks)
	w.WriteSVLQ(o.proposalPoint)
	w.WriteSVLQ(o.consensusPoint)
	w.WriteSVLQ(o.timestamp)
}

func (o *Order) RefCount() int    { return 1 }
func (o *Order) GetRef(i int) Ref { return o.blocks }

func (o *Order) UpdateRefs(f func(Ref) Ref) Cell {
	return &Order{blocks: f(o.blocks), proposalPoint: o.proposalPoint, consensusPoint: o.consensusPoint, timestamp: o.timestamp}
}

func (o *Order) Validate() error {
	if o.consensusPoint < 0 || o.proposalPoint < o.consensusPoint {
		return badFormat("order: consensusPoint %d > proposalPoint %d", o.consensusPoint, o.proposalPoint)
	}
	if o.blocks.value != nil {
		if count := o.blocks.value.(*Vector).Count(); o.proposalPoint > count {
			return badFormat("order: proposalPoint %d > blocks.count %d", o.proposalPoint, count)
		}
	}
	return nil
}

func decodeOrder(r *Reader) (Cell, error) {
	blocks, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	if blocks.value != nil {
		if _, ok := blocks.value.(*Vector); !ok {
			return nil, badFormat("order blocks is not a vector")
		}
	}
	proposalPoint, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	consensusPoint, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	timestamp, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	o := &Order{blocks: blocks, proposalPoint: proposalPoint, consensusPoint: consensusPoint, timestamp: timestamp}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}
