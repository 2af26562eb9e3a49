package data

// AccountStatus is one entry in State's accounts vector: a balance and the
// sequence number the next transaction from this account must present, the
// minimal shape needed to run transfers and reject replays.
type AccountStatus struct {
	key      AccountKey
	balance  int64
	sequence int64
}

// NewAccountStatus builds an AccountStatus for key with the given balance
// and starting sequence (0 before any transaction has been applied).
func NewAccountStatus(key AccountKey, balance int64) *AccountStatus {
	return &AccountStatus{key: key, balance: balance, sequence: 0}
}

func (a *AccountStatus) Key() AccountKey { return a.key }
func (a *AccountStatus) Balance() int64  { return a.balance }
func (a *AccountStatus) Sequence() int64 { return a.sequence }

// WithBalance returns a copy of a with a new balance.
func (a *AccountStatus) WithBalance(balance int64) *AccountStatus {
	return &AccountStatus{key: a.key, balance: balance, sequence: a.sequence}
}

// WithSequence returns a copy of a with a new sequence number.
func (a *AccountStatus) WithSequence(seq int64) *AccountStatus {
	return &AccountStatus{key: a.key, balance: a.balance, sequence: seq}
}

func (a *AccountStatus) RecordTag() byte { return RecordAccountStatus }
func (a *AccountStatus) Tag() byte       { return TagRecord }

func (a *AccountStatus) WriteBody(w *Writer) {
	w.WriteRaw(a.key[:])
	w.WriteSVLQ(a.balance)
	w.WriteSVLQ(a.sequence)
}

func (a *AccountStatus) RefCount() int                   { return 0 }
func (a *AccountStatus) GetRef(i int) Ref                { panic("data: GetRef on AccountStatus") }
func (a *AccountStatus) UpdateRefs(f func(Ref) Ref) Cell { return a }
func (a *AccountStatus) Validate() error {
	if a.balance < 0 {
		return badFormat("account status: negative balance %d", a.balance)
	}
	if a.sequence < 0 {
		return badFormat("account status: negative sequence %d", a.sequence)
	}
	return nil
}

func decodeAccountStatus(r *Reader) (Cell, error) {
	keyB, err := r.ReadRaw(32)
	if err != nil {
		return nil, err
	}
	balance, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	sequence, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	var key AccountKey
	copy(key[:], keyB)
	a := &AccountStatus{key: key, balance: balance, sequence: sequence}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}
