package data

// Transaction is implemented by every transaction kind the executor can
// apply to a State. Origin identifies the paying/signing account by its
// index into the State's accounts vector; Sequence is the replay-protection
// counter that must match one more than the account's current sequence.
//
// Transfer is, for now, the only transaction kind: the Non-goals exclude a
// general contract VM, so there is no open interpreter dispatch here, just
// one concrete record type behind this interface for the executor to
// type-switch on.
type Transaction interface {
	Cell
	Origin() Address
	Sequence() int64
}

// Transfer moves amount from Origin to To, the sole transaction kind this
// system executes.
type Transfer struct {
	origin   Address
	sequence int64
	to       Address
	amount   int64
}

// NewTransfer builds a Transfer transaction.
func NewTransfer(origin Address, sequence int64, to Address, amount int64) *Transfer {
	return &Transfer{origin: origin, sequence: sequence, to: to, amount: amount}
}

func (t *Transfer) Origin() Address   { return t.origin }
func (t *Transfer) Sequence() int64   { return t.sequence }
func (t *Transfer) To() Address       { return t.to }
func (t *Transfer) Amount() int64     { return t.amount }

func (t *Transfer) RecordTag() byte { return RecordTransfer }
func (t *Transfer) Tag() byte       { return TagRecord }

func (t *Transfer) WriteBody(w *Writer) {
	w.WriteUVLQ(uint64(t.origin))
	w.WriteSVLQ(t.sequence)
	w.WriteUVLQ(uint64(t.to))
	w.WriteSVLQ(t.amount)
}

func (t *Transfer) RefCount() int                   { return 0 }
func (t *Transfer) GetRef(i int) Ref                { panic("data: GetRef on Transfer") }
func (t *Transfer) UpdateRefs(f func(Ref) Ref) Cell { return t }

func (t *Transfer) Validate() error {
	if t.origin < 0 || t.to < 0 {
		return badFormat("transfer: negative address")
	}
	if t.sequence < 1 {
		return badFormat("transfer: sequence must be >= 1, got %d", t.sequence)
	}
	if t.amount < 0 {
		return badFormat("transfer: negative amount %d", t.amount)
	}
	return nil
}

func decodeTransfer(r *Reader) (Cell, error) {
	origin, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	sequence, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	to, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	amount, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	t := &Transfer{origin: Address(origin), sequence: sequence, to: Address(to), amount: amount}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}
