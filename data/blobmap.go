package data

// BlobMap is the long-prefix trie keyed directly on a key cell's own bytes
// (AccountKey, Address, Blob), as opposed to HashMap which branches on
// hash(key). It is used where keys are already uniformly distributed fixed-
// width values — State's peers map (AccountKey) and schedule (Address) —
// so hashing them first would buy nothing.
type BlobMap struct {
	count int64

	isTree bool
	shift  int // nibble position, 0-based
	mask   uint16
	kids   []Ref

	entries []Ref // leaf: MapEntry refs
}

// EmptyBlobMap is the unique zero-entry BlobMap.
var EmptyBlobMap = &BlobMap{}

func (m *BlobMap) Count() int64 { return m.count }

// blobKeyBytes extracts the fixed-width byte representation a BlobMap
// branches on. Only the key kinds State actually uses as blob-map keys are
// supported; any other cell kind is a programmer error, not a data error.
func blobKeyBytes(key Cell) []byte {
	switch k := key.(type) {
	case AccountKey:
		return k[:]
	case Address:
		var buf [8]byte
		v := uint64(k)
		for i := 7; i >= 0; i-- {
			buf[i] = byte(v)
			v >>= 8
		}
		return buf[:]
	case Blob:
		return []byte(k)
	default:
		panic("data: unsupported BlobMap key kind")
	}
}

func blobDigit(b []byte, pos int) (byte, bool) {
	if pos/2 >= len(b) {
		return 0, false
	}
	byt := b[pos/2]
	if pos%2 == 0 {
		return byt >> 4, true
	}
	return byt & 0x0f, true
}

// Get returns the value ref for key and true, or the zero Ref and false.
func (m *BlobMap) Get(key Cell) (Ref, bool) {
	return bmGet(m, blobKeyBytes(key))
}

func (m *BlobMap) ContainsKey(key Cell) bool {
	_, ok := m.Get(key)
	return ok
}

// Assoc returns a new BlobMap with key bound to value.
func (m *BlobMap) Assoc(key Cell, value Ref) *BlobMap {
	entry := EmbedRef(NewMapEntry(NewRef(key), value))
	return bmAssoc(m, 0, blobKeyBytes(key), entry)
}

// Dissoc returns a new BlobMap with key removed.
func (m *BlobMap) Dissoc(key Cell) *BlobMap {
	out, _ := bmDissoc(m, blobKeyBytes(key))
	if out == nil {
		return EmptyBlobMap
	}
	return out
}

func (m *BlobMap) Entries() []*MapEntry {
	out := make([]*MapEntry, 0, m.count)
	m.collect(&out)
	return out
}

func (m *BlobMap) collect(out *[]*MapEntry) {
	if !m.isTree {
		for _, e := range m.entries {
			*out = append(*out, e.value.(*MapEntry))
		}
		return
	}
	for _, k := range m.kids {
		k.value.(*BlobMap).collect(out)
	}
}

func entryKeyBytes(e *MapEntry) []byte {
	return blobKeyBytes(e.key.value)
}

func bmGet(node *BlobMap, kb []byte) (Ref, bool) {
	if node == nil || node.count == 0 {
		return Ref{}, false
	}
	if !node.isTree {
		for _, e := range node.entries {
			entry := e.value.(*MapEntry)
			if bytesEqual(entryKeyBytes(entry), kb) {
				return entry.value, true
			}
		}
		return Ref{}, false
	}
	d, ok := blobDigit(kb, node.shift)
	if !ok {
		return Ref{}, false
	}
	bit := uint16(1) << uint(d)
	if node.mask&bit == 0 {
		return Ref{}, false
	}
	idx := popcountBelow(node.mask, int(d))
	return bmGet(node.kids[idx].value.(*BlobMap), kb)
}

func bmAssoc(node *BlobMap, depth int, kb []byte, entry Ref) *BlobMap {
	if node == nil || node.count == 0 {
		return &BlobMap{count: 1, entries: []Ref{entry}}
	}
	if !node.isTree {
		newEntries, grew := upsertBlobLeafEntry(node.entries, entry)
		if int64(len(newEntries)) <= LeafMax {
			return &BlobMap{count: node.count + boolDelta(grew), entries: newEntries}
		}
		return rebuildBlobTree(newEntries, depth)
	}

	d, ok := blobDigit(kb, node.shift)
	if !ok {
		// Key exhausted at a tree node: cannot happen for the fixed-width
		// key kinds this map supports, since all entries below share the
		// same width and would have collapsed into one leaf first.
		panic("data: BlobMap key shorter than tree depth")
	}
	bit := uint16(1) << uint(d)
	if node.mask&bit != 0 {
		idx := popcountBelow(node.mask, int(d))
		child := node.kids[idx].value.(*BlobMap)
		newChild := bmAssoc(child, node.shift+1, kb, entry)
		kids := cloneRefSlice(node.kids)
		kids[idx] = EmbedRef(newChild)
		return &BlobMap{count: node.count - child.count + newChild.count, isTree: true, shift: node.shift, mask: node.mask, kids: kids}
	}
	idx := popcountBelow(node.mask, int(d))
	newChild := &BlobMap{count: 1, entries: []Ref{entry}}
	kids := insertRefAt(node.kids, idx, EmbedRef(newChild))
	return &BlobMap{count: node.count + 1, isTree: true, shift: node.shift, mask: node.mask | bit, kids: kids}
}

func bmDissoc(node *BlobMap, kb []byte) (*BlobMap, bool) {
	if node == nil || node.count == 0 {
		return node, false
	}
	if !node.isTree {
		for i, e := range node.entries {
			entry := e.value.(*MapEntry)
			if bytesEqual(entryKeyBytes(entry), kb) {
				entries := removeRefAt(node.entries, i)
				if len(entries) == 0 {
					return nil, true
				}
				return &BlobMap{count: node.count - 1, entries: entries}, true
			}
		}
		return node, false
	}
	d, ok := blobDigit(kb, node.shift)
	if !ok {
		return node, false
	}
	bit := uint16(1) << uint(d)
	if node.mask&bit == 0 {
		return node, false
	}
	idx := popcountBelow(node.mask, int(d))
	child := node.kids[idx].value.(*BlobMap)
	newChild, removed := bmDissoc(child, kb)
	if !removed {
		return node, false
	}
	newCount := node.count - 1
	if newCount <= LeafMax {
		if newCount == 0 {
			return nil, true
		}
		all := node.Entries()
		refs := make([]Ref, 0, newCount)
		for _, e := range all {
			if bytesEqual(entryKeyBytes(e), kb) {
				continue
			}
			refs = append(refs, EmbedRef(e))
		}
		return &BlobMap{count: newCount, entries: refs}, true
	}
	if newChild == nil {
		kids := removeRefAt(node.kids, idx)
		return &BlobMap{count: newCount, isTree: true, shift: node.shift, mask: node.mask &^ bit, kids: kids}, true
	}
	kids := cloneRefSlice(node.kids)
	kids[idx] = EmbedRef(newChild)
	return &BlobMap{count: newCount, isTree: true, shift: node.shift, mask: node.mask, kids: kids}, true
}

func upsertBlobLeafEntry(entries []Ref, entry Ref) ([]Ref, bool) {
	newKB := entryKeyBytes(entry.value.(*MapEntry))
	for i, e := range entries {
		if bytesEqual(entryKeyBytes(e.value.(*MapEntry)), newKB) {
			out := cloneRefSlice(entries)
			out[i] = entry
			return out, false
		}
	}
	return append(cloneRefSlice(entries), entry), true
}

func rebuildBlobTree(entries []Ref, depth int) *BlobMap {
	if int64(len(entries)) <= LeafMax {
		return &BlobMap{count: int64(len(entries)), entries: entries}
	}
	var buckets [16][]Ref
	for _, e := range entries {
		kb := entryKeyBytes(e.value.(*MapEntry))
		d, ok := blobDigit(kb, depth)
		if !ok {
			panic("data: BlobMap key shorter than tree depth")
		}
		buckets[d] = append(buckets[d], e)
	}
	var mask uint16
	var kids []Ref
	for d := 0; d < 16; d++ {
		if len(buckets[d]) == 0 {
			continue
		}
		mask |= uint16(1) << uint(d)
		kids = append(kids, EmbedRef(rebuildBlobTree(buckets[d], depth+1)))
	}
	return &BlobMap{count: int64(len(entries)), isTree: true, shift: depth, mask: mask, kids: kids}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// --- Cell interface ------------------------------------------------------

func (m *BlobMap) Tag() byte { return TagBlobMap }

func (m *BlobMap) WriteBody(w *Writer) {
	w.WriteUVLQ(uint64(m.count))
	if !m.isTree {
		for _, e := range m.entries {
			w.WriteRef(e)
		}
		return
	}
	_ = w.WriteByte(byte(m.shift))
	w.WriteUint16(m.mask)
	for _, k := range m.kids {
		w.WriteRef(k)
	}
}

func (m *BlobMap) RefCount() int {
	if !m.isTree {
		return len(m.entries)
	}
	return len(m.kids)
}

func (m *BlobMap) GetRef(i int) Ref {
	if !m.isTree {
		return m.entries[i]
	}
	return m.kids[i]
}

func (m *BlobMap) UpdateRefs(f func(Ref) Ref) Cell {
	if !m.isTree {
		entries := make([]Ref, len(m.entries))
		for i, e := range m.entries {
			entries[i] = f(e)
		}
		return &BlobMap{count: m.count, entries: entries}
	}
	kids := make([]Ref, len(m.kids))
	for i, k := range m.kids {
		kids[i] = f(k)
	}
	return &BlobMap{count: m.count, isTree: true, shift: m.shift, mask: m.mask, kids: kids}
}

func (m *BlobMap) Validate() error {
	if !m.isTree {
		if int64(len(m.entries)) != m.count {
			return badFormat("blobmap leaf count mismatch: %d entries, count %d", len(m.entries), m.count)
		}
		if m.count > LeafMax {
			return badFormat("blobmap leaf exceeds LeafMax: %d", m.count)
		}
		return nil
	}
	if m.count <= LeafMax {
		return badFormat("blobmap tree node at or below LeafMax: %d", m.count)
	}
	return nil
}

func decodeBlobMap(r *Reader) (Cell, error) {
	count, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	if count <= LeafMax {
		entries := make([]Ref, count)
		for i := range entries {
			entries[i], err = r.ReadRef()
			if err != nil {
				return nil, err
			}
		}
		return &BlobMap{count: int64(count), entries: entries}, nil
	}
	shift, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	mask, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	n := 0
	for d := 0; d < 16; d++ {
		if mask&(uint16(1)<<uint(d)) != 0 {
			n++
		}
	}
	if n == 0 {
		return nil, badFormat("blobmap tree node has empty mask")
	}
	kids := make([]Ref, n)
	for i := range kids {
		kids[i], err = r.ReadRef()
		if err != nil {
			return nil, err
		}
	}
	return &BlobMap{count: int64(count), isTree: true, shift: int(shift), mask: mask, kids: kids}, nil
}
