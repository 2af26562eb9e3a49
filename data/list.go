package data

// List is the closed set's singly-linked sequence cell kind, distinct from
// Vector: conj prepends, not appends, and there is no chunking since lists
// in this system are only ever used for small scratch sequences (not the
// block/transaction storage Vector handles).
type List struct {
	items []Ref // stored head-first
}

// EmptyList is the unique zero-length List.
var EmptyList = &List{}

func ListOf(items ...Ref) *List { return &List{items: items} }

func (l *List) Count() int64 { return int64(len(l.items)) }

func (l *List) First() Ref { return l.items[0] }

func (l *List) Rest() *List {
	if len(l.items) <= 1 {
		return EmptyList
	}
	return &List{items: l.items[1:]}
}

func (l *List) Cons(e Ref) *List {
	items := make([]Ref, len(l.items)+1)
	items[0] = e
	copy(items[1:], l.items)
	return &List{items: items}
}

func (l *List) Tag() byte { return TagList }

func (l *List) WriteBody(w *Writer) {
	w.WriteUVLQ(uint64(len(l.items)))
	for _, it := range l.items {
		w.WriteRef(it)
	}
}

func (l *List) RefCount() int        { return len(l.items) }
func (l *List) GetRef(i int) Ref     { return l.items[i] }

func (l *List) UpdateRefs(f func(Ref) Ref) Cell {
	items := make([]Ref, len(l.items))
	for i, it := range l.items {
		items[i] = f(it)
	}
	return &List{items: items}
}

func (l *List) Validate() error { return nil }

func decodeList(r *Reader) (Cell, error) {
	n, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	items := make([]Ref, n)
	for i := range items {
		items[i], err = r.ReadRef()
		if err != nil {
			return nil, err
		}
	}
	return &List{items: items}, nil
}
