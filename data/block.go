package data

// Block is an ordered sequence of signed transactions proposed by one peer
// at one point in time. Its hash (the hash of its canonical encoding) is
// what winning-chain votes and common-prefix comparisons key on.
//
// Like Vector's kids and HashMap's entries, the transactions child is held
// as a Ref rather than a concrete *Vector: Persist may rewrite it to an
// indirect ref once it no longer fits embedded, and callers that need it
// after that go through a Store rather than this struct directly.
type Block struct {
	timestamp    int64
	peerKey      AccountKey
	transactions Ref // *Vector of Ref to *SignedData wrapping a Transaction
}

// NewBlock builds a Block from a peer key, timestamp, and the signed
// transactions it carries, in order.
func NewBlock(timestamp int64, peerKey AccountKey, transactions *Vector) *Block {
	if transactions == nil {
		transactions = EmptyVector
	}
	return &Block{timestamp: timestamp, peerKey: peerKey, transactions: EmbedRef(transactions)}
}

func (b *Block) Timestamp() int64    { return b.timestamp }
func (b *Block) PeerKey() AccountKey { return b.peerKey }

// Transactions returns the embedded transactions vector. Panics if the ref
// is indirect (i.e. this Block was loaded without resolving through a
// Store); consensus code always deals in resolved Blocks.
func (b *Block) Transactions() *Vector { return b.transactions.value.(*Vector) }

func (b *Block) RecordTag() byte { return RecordBlock }
func (b *Block) Tag() byte       { return TagRecord }

func (b *Block) WriteBody(w *Writer) {
	w.WriteSVLQ(b.timestamp)
	w.WriteRaw(b.peerKey[:])
	w.WriteRef(b.transactions)
}

func (b *Block) RefCount() int    { return 1 }
func (b *Block) GetRef(i int) Ref { return b.transactions }

func (b *Block) UpdateRefs(f func(Ref) Ref) Cell {
	return &Block{timestamp: b.timestamp, peerKey: b.peerKey, transactions: f(b.transactions)}
}

func (b *Block) Validate() error { return nil }

func decodeBlock(r *Reader) (Cell, error) {
	ts, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	keyB, err := r.ReadRaw(32)
	if err != nil {
		return nil, err
	}
	txRef, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	if txRef.value != nil {
		if _, ok := txRef.value.(*Vector); !ok {
			return nil, badFormat("block transactions is not a vector")
		}
	}
	var key AccountKey
	copy(key[:], keyB)
	return &Block{timestamp: ts, peerKey: key, transactions: txRef}, nil
}
