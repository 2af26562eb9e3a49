package data

// State is the replicated consensus state a peer derives by applying
// consensed blocks in order: account balances, peer stakes, global values,
// and scheduled future actions, per spec §4.1.
type State struct {
	accounts Ref // *Vector of Ref to *AccountStatus
	peers    Ref // *BlobMap of AccountKey -> *PeerStatus
	globals  Ref // *Vector of Ref to any Cell
	schedule Ref // *BlobMap of Address -> *Vector of Ref to *SignedData wrapping a Transaction
}

// NewState builds a State from its four components, defaulting any nil
// argument to empty.
func NewState(accounts *Vector, peers *BlobMap, globals *Vector, schedule *BlobMap) *State {
	if accounts == nil {
		accounts = EmptyVector
	}
	if peers == nil {
		peers = EmptyBlobMap
	}
	if globals == nil {
		globals = EmptyVector
	}
	if schedule == nil {
		schedule = EmptyBlobMap
	}
	return &State{
		accounts: EmbedRef(accounts),
		peers:    EmbedRef(peers),
		globals:  EmbedRef(globals),
		schedule: EmbedRef(schedule),
	}
}

func (s *State) Accounts() *Vector  { return s.accounts.value.(*Vector) }
func (s *State) Peers() *BlobMap    { return s.peers.value.(*BlobMap) }
func (s *State) Globals() *Vector   { return s.globals.value.(*Vector) }
func (s *State) Schedule() *BlobMap { return s.schedule.value.(*BlobMap) }

func (s *State) WithAccounts(accounts *Vector) *State {
	return &State{accounts: EmbedRef(accounts), peers: s.peers, globals: s.globals, schedule: s.schedule}
}

func (s *State) WithPeers(peers *BlobMap) *State {
	return &State{accounts: s.accounts, peers: EmbedRef(peers), globals: s.globals, schedule: s.schedule}
}

func (s *State) WithGlobals(globals *Vector) *State {
	return &State{accounts: s.accounts, peers: s.peers, globals: EmbedRef(globals), schedule: s.schedule}
}

func (s *State) WithSchedule(schedule *BlobMap) *State {
	return &State{accounts: s.accounts, peers: s.peers, globals: s.globals, schedule: EmbedRef(schedule)}
}

// StakeOf returns peerKey's stake in s, or 0 if it has none.
func (s *State) StakeOf(peerKey AccountKey) int64 {
	ref, ok := s.Peers().Get(peerKey)
	if !ok {
		return 0
	}
	return ref.value.(*PeerStatus).Stake()
}

// TotalStake returns the sum of every peer's stake in s, the denominator
// belief-merge's majority and supermajority thresholds are computed
// against.
func (s *State) TotalStake() int64 {
	var total int64
	for _, e := range s.Peers().Entries() {
		total += e.Value().value.(*PeerStatus).Stake()
	}
	return total
}

// ComputeTotalFunds sums every account balance, every peer's stake, and the
// amount reserved against every scheduled transaction, per spec §4.1. A
// correctly-applied transaction preserves this sum; it is the cheapest
// whole-state sanity check available after applying a block.
func ComputeTotalFunds(s *State) int64 {
	var total int64
	for _, ref := range s.Accounts().ToSlice() {
		total += ref.value.(*AccountStatus).Balance()
	}
	for _, e := range s.Peers().Entries() {
		total += e.Value().value.(*PeerStatus).Stake()
	}
	for _, e := range s.Schedule().Entries() {
		vec := e.Value().value.(*Vector)
		for _, txRef := range vec.ToSlice() {
			signed := txRef.value.(*SignedData)
			if transfer, ok := signed.Value().value.(*Transfer); ok {
				total += transfer.Amount()
			}
		}
	}
	return total
}

func (s *State) RecordTag() byte { return RecordState }
func (s *State) Tag() byte       { return TagRecord }

func (s *State) WriteBody(w *Writer) {
	w.WriteRef(s.accounts)
	w.WriteRef(s.peers)
	w.WriteRef(s.globals)
	w.WriteRef(s.schedule)
}

func (s *State) RefCount() int { return 4 }
func (s *State) GetRef(i int) Ref {
	switch i {
	case 0:
		return s.accounts
	case 1:
		return s.peers
	case 2:
		return s.globals
	default:
		return s.schedule
	}
}

func (s *State) UpdateRefs(f func(Ref) Ref) Cell {
	return &State{accounts: f(s.accounts), peers: f(s.peers), globals: f(s.globals), schedule: f(s.schedule)}
}

func (s *State) Validate() error {
	if s.accounts.value != nil {
		if _, ok := s.accounts.value.(*Vector); !ok {
			return badFormat("state accounts is not a vector")
		}
	}
	if s.peers.value != nil {
		if _, ok := s.peers.value.(*BlobMap); !ok {
			return badFormat("state peers is not a blob-map")
		}
	}
	if s.globals.value != nil {
		if _, ok := s.globals.value.(*Vector); !ok {
			return badFormat("state globals is not a vector")
		}
	}
	if s.schedule.value != nil {
		if _, ok := s.schedule.value.(*BlobMap); !ok {
			return badFormat("state schedule is not a blob-map")
		}
	}
	return nil
}

func decodeState(r *Reader) (Cell, error) {
	accounts, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	peers, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	globals, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	schedule, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	s := &State{accounts: accounts, peers: peers, globals: globals, schedule: schedule}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
