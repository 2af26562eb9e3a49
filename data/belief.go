package data

// Belief is a peer's map of the latest signed Order observed from every
// peer it knows about, per spec §4.1/§4.5 — the unit that gossips and the
// input/output of mergeBeliefs.
type Belief struct {
	orders    Ref // *HashMap of AccountKey -> *SignedData wrapping *Order
	timestamp int64
}

// NewBelief builds a Belief from an orders map and timestamp.
func NewBelief(orders *HashMap, timestamp int64) *Belief {
	if orders == nil {
		orders = EmptyHashMap
	}
	return &Belief{orders: EmbedRef(orders), timestamp: timestamp}
}

func (b *Belief) Orders() *HashMap { return b.orders.value.(*HashMap) }
func (b *Belief) Timestamp() int64 { return b.timestamp }

// WithOrders returns a copy of b with a new orders map.
func (b *Belief) WithOrders(orders *HashMap) *Belief {
	return &Belief{orders: EmbedRef(orders), timestamp: b.timestamp}
}

// WithTimestamp returns a copy of b with a new timestamp. updateTimestamp
// is monotone; callers enforce that, not this constructor.
func (b *Belief) WithTimestamp(ts int64) *Belief {
	return &Belief{orders: b.orders, timestamp: ts}
}

func (b *Belief) RecordTag() byte { return RecordBelief }
func (b *Belief) Tag() byte       { return TagRecord }

func (b *Belief) WriteBody(w *Writer) {
	w.WriteRef(b.orders)
	w.WriteSVLQ(b.timestamp)
}

func (b *Belief) RefCount() int    { return 1 }
func (b *Belief) GetRef(i int) Ref { return b.orders }

func (b *Belief) UpdateRefs(f func(Ref) Ref) Cell {
	return &Belief{orders: f(b.orders), timestamp: b.timestamp}
}

func (b *Belief) Validate() error {
	if b.orders.value != nil {
		if _, ok := b.orders.value.(*HashMap); !ok {
			return badFormat("belief orders is not a map")
		}
	}
	return nil
}

func decodeBelief(r *Reader) (Cell, error) {
	orders, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	if orders.value != nil {
		if _, ok := orders.value.(*HashMap); !ok {
			return nil, badFormat("belief orders is not a map")
		}
	}
	ts, err := r.ReadSVLQ()
	if err != nil {
		return nil, err
	}
	return &Belief{orders: orders, timestamp: ts}, nil
}
