package data

import "github.com/mosaicnetworks/cascade/hash"

// HashMap is the persistent, immutable key/value map of spec §4.2: a 16-ary
// radix trie branching on successive hex digits of hash(encode(key)). A node
// with at most LeafMax entries is a flat leaf; once it would exceed LeafMax
// it is represented as a tree of up to 16 children, one per digit value,
// selected by a 16-bit presence mask. Both shapes share TagMap; the decoder
// tells them apart by comparing the leading count against LeafMax, exactly
// as the leaf/tree canonicity rule requires.
//
// A node never stores more digits of context than it needs: leaves carry no
// shift (they hold entries regardless of how deep they sit), and tree nodes
// carry the shift (hex-digit position, 0..63) they branch on. Decode reads
// the shift back as recorded; it does not check it against the node's depth.
type HashMap struct {
	count int64

	isTree bool
	shift  uint
	mask   uint16
	kids   []Ref // tree: child HashMap refs, ordered by ascending digit

	entries []Ref // leaf: MapEntry refs
}

// EmptyHashMap is the unique zero-entry HashMap.
var EmptyHashMap = &HashMap{}

func (m *HashMap) Count() int64 { return m.count }

func (m *HashMap) keyHash(key Cell) hash.Hash { return Hash(key) }

// Get returns the value ref for key and true, or the zero Ref and false.
func (m *HashMap) Get(key Cell) (Ref, bool) {
	return hmGet(m, m.keyHash(key))
}

// ContainsKey reports whether key is present.
func (m *HashMap) ContainsKey(key Cell) bool {
	_, ok := m.Get(key)
	return ok
}

// Assoc returns a new HashMap with key bound to value, replacing any
// existing binding for an equal key.
func (m *HashMap) Assoc(key Cell, value Ref) *HashMap {
	entry := EmbedRef(NewMapEntry(NewRef(key), value))
	return hmAssoc(m, 0, m.keyHash(key), entry)
}

// Dissoc returns a new HashMap with key removed, or m unchanged if key was
// not present.
func (m *HashMap) Dissoc(key Cell) *HashMap {
	out, _ := hmDissoc(m, m.keyHash(key))
	if out == nil {
		return EmptyHashMap
	}
	return out
}

// Entries returns every MapEntry in the map, in trie (digit) order.
func (m *HashMap) Entries() []*MapEntry {
	out := make([]*MapEntry, 0, m.count)
	m.collect(&out)
	return out
}

func (m *HashMap) collect(out *[]*MapEntry) {
	if !m.isTree {
		for _, e := range m.entries {
			*out = append(*out, e.value.(*MapEntry))
		}
		return
	}
	for _, k := range m.kids {
		k.value.(*HashMap).collect(out)
	}
}

func hmGet(node *HashMap, kh hash.Hash) (Ref, bool) {
	if node == nil || node.count == 0 {
		return Ref{}, false
	}
	if !node.isTree {
		for _, e := range node.entries {
			entry := e.value.(*MapEntry)
			if entry.key.Hash().Equals(kh) {
				return entry.value, true
			}
		}
		return Ref{}, false
	}
	d := int(kh.Digit(int(node.shift)))
	bit := uint16(1) << uint(d)
	if node.mask&bit == 0 {
		return Ref{}, false
	}
	idx := popcountBelow(node.mask, d)
	child := node.kids[idx].value.(*HashMap)
	return hmGet(child, kh)
}

func hmAssoc(node *HashMap, depth uint, kh hash.Hash, entry Ref) *HashMap {
	if node == nil || node.count == 0 {
		return &HashMap{count: 1, entries: []Ref{entry}}
	}
	if !node.isTree {
		newEntries, grew := upsertLeafEntry(node.entries, entry)
		if int64(len(newEntries)) <= LeafMax {
			return &HashMap{count: node.count + boolDelta(grew), entries: newEntries}
		}
		return rebuildHashTree(newEntries, depth)
	}

	d := int(kh.Digit(int(node.shift)))
	bit := uint16(1) << uint(d)
	if node.mask&bit != 0 {
		idx := popcountBelow(node.mask, d)
		child := node.kids[idx].value.(*HashMap)
		newChild := hmAssoc(child, node.shift+1, kh, entry)
		kids := cloneRefSlice(node.kids)
		kids[idx] = EmbedRef(newChild)
		return &HashMap{count: node.count - child.count + newChild.count, isTree: true, shift: node.shift, mask: node.mask, kids: kids}
	}

	idx := popcountBelow(node.mask, d)
	newChild := &HashMap{count: 1, entries: []Ref{entry}}
	kids := insertRefAt(node.kids, idx, EmbedRef(newChild))
	return &HashMap{count: node.count + 1, isTree: true, shift: node.shift, mask: node.mask | bit, kids: kids}
}

func hmDissoc(node *HashMap, kh hash.Hash) (*HashMap, bool) {
	if node == nil || node.count == 0 {
		return node, false
	}
	if !node.isTree {
		idx := findLeafEntry(node.entries, kh)
		if idx < 0 {
			return node, false
		}
		entries := removeRefAt(node.entries, idx)
		if len(entries) == 0 {
			return nil, true
		}
		return &HashMap{count: node.count - 1, entries: entries}, true
	}

	d := int(kh.Digit(int(node.shift)))
	bit := uint16(1) << uint(d)
	if node.mask&bit == 0 {
		return node, false
	}
	idx := popcountBelow(node.mask, d)
	child := node.kids[idx].value.(*HashMap)
	newChild, removed := hmDissoc(child, kh)
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
			if e.key.Hash().Equals(kh) {
				continue
			}
			refs = append(refs, EmbedRef(e))
		}
		return &HashMap{count: newCount, entries: refs}, true
	}
	if newChild == nil {
		kids := removeRefAt(node.kids, idx)
		return &HashMap{count: newCount, isTree: true, shift: node.shift, mask: node.mask &^ bit, kids: kids}, true
	}
	kids := cloneRefSlice(node.kids)
	kids[idx] = EmbedRef(newChild)
	return &HashMap{count: newCount, isTree: true, shift: node.shift, mask: node.mask, kids: kids}, true
}

func boolDelta(grew bool) int64 {
	if grew {
		return 1
	}
	return 0
}

// upsertLeafEntry replaces the existing entry with the same key, or appends
// entry, reporting whether the entry count grew.
func upsertLeafEntry(entries []Ref, entry Ref) ([]Ref, bool) {
	newKey := entry.value.(*MapEntry).key
	for i, e := range entries {
		if e.value.(*MapEntry).key.Equal(newKey) {
			out := cloneRefSlice(entries)
			out[i] = entry
			return out, false
		}
	}
	return append(cloneRefSlice(entries), entry), true
}

func findLeafEntry(entries []Ref, kh hash.Hash) int {
	for i, e := range entries {
		entry := e.value.(*MapEntry)
		if entry.key.Hash().Equals(kh) {
			return i
		}
	}
	return -1
}

// rebuildHashTree re-partitions an overflowing leaf's entries into a fresh
// subtree rooted at depth, recursing into further leaves or trees as needed.
// Rebuilding from scratch on overflow, rather than threading incremental
// split logic through assoc, keeps the split invariant (a node splits the
// instant it exceeds LeafMax, never before) trivially obvious to verify.
func rebuildHashTree(entries []Ref, depth uint) *HashMap {
	if int64(len(entries)) <= LeafMax {
		return &HashMap{count: int64(len(entries)), entries: entries}
	}
	var buckets [16][]Ref
	for _, e := range entries {
		kh := e.value.(*MapEntry).key.Hash()
		d := kh.Digit(int(depth))
		buckets[d] = append(buckets[d], e)
	}
	var mask uint16
	var kids []Ref
	for d := 0; d < 16; d++ {
		if len(buckets[d]) == 0 {
			continue
		}
		mask |= uint16(1) << uint(d)
		kids = append(kids, EmbedRef(rebuildHashTree(buckets[d], depth+1)))
	}
	return &HashMap{count: int64(len(entries)), isTree: true, shift: depth, mask: mask, kids: kids}
}

// MergeDifferences folds two maps into one, skipping any pair of subtrees
// whose refs already compare hash-equal (the fast path that makes belief
// comparison across near-identical peer states cheap). f is called once per
// key present in either map with the two candidate value refs (the zero Ref
// and false if absent on that side) and returns the value to keep and
// whether the key survives.
func MergeDifferences(a, b *HashMap, f func(key Cell, va Ref, aOK bool, vb Ref, bOK bool) (Ref, bool)) *HashMap {
	return a.mergeInto(b, f)
}

func (a *HashMap) mergeInto(b *HashMap, f func(Cell, Ref, bool, Ref, bool) (Ref, bool)) *HashMap {
	if a == nil {
		a = EmptyHashMap
	}
	if b == nil {
		b = EmptyHashMap
	}
	if a.count == 0 && b.count == 0 {
		return EmptyHashMap
	}
	if a.refEqual(b) {
		return a
	}
	if a.isTree || b.isTree {
		// The tree side's shift is the depth both operands split on here;
		// a leaf operand hasn't partitioned its entries that far yet, so it
		// must be bucketed by digit at that shift before recursing, not
		// read through childAt (which only understands tree shape and would
		// silently treat a same-depth leaf as having no children at all).
		shift := a.shift
		if !a.isTree {
			shift = b.shift
		}
		aBuckets := a.digitBuckets(shift)
		bBuckets := b.digitBuckets(shift)
		result := EmptyHashMap
		for d := 0; d < 16; d++ {
			childA := aBuckets[d]
			childB := bBuckets[d]
			if childA.count == 0 && childB.count == 0 {
				continue
			}
			merged := childA.mergeInto(childB, f)
			for _, e := range merged.Entries() {
				result = hmAssoc(result, 0, e.key.Hash(), EmbedRef(e))
			}
		}
		return result
	}

	result := EmptyHashMap
	seen := make(map[hash.Hash]bool, len(a.entries)+len(b.entries))
	apply := func(key Cell, va Ref, aOK bool, vb Ref, bOK bool) {
		merged, keep := f(key, va, aOK, vb, bOK)
		if keep {
			result = result.Assoc(key, merged)
		}
	}
	for _, e := range a.entries {
		entry := e.value.(*MapEntry)
		key := mustResolveKeyCell(entry)
		vb, bOK := b.Get(key)
		apply(key, entry.value, true, vb, bOK)
		seen[Hash(key)] = true
	}
	for _, e := range b.entries {
		entry := e.value.(*MapEntry)
		key := mustResolveKeyCell(entry)
		if seen[Hash(key)] {
			continue
		}
		apply(key, Ref{}, false, entry.value, true)
	}
	return result
}

func (m *HashMap) childAt(d int) *HashMap {
	if m == nil || !m.isTree {
		return EmptyHashMap
	}
	bit := uint16(1) << uint(d)
	if m.mask&bit == 0 {
		return EmptyHashMap
	}
	idx := popcountBelow(m.mask, d)
	return m.kids[idx].value.(*HashMap)
}

// digitBuckets splits m into its 16 digit-branches at shift. For a tree
// node already split at shift this is just childAt per digit; for a leaf
// (which holds entries regardless of depth) it partitions those entries by
// the digit they'd fall into at shift, so a leaf can be merged against a
// tree operand at the same depth without losing entries childAt can't see.
func (m *HashMap) digitBuckets(shift uint) [16]*HashMap {
	var out [16]*HashMap
	for d := range out {
		out[d] = EmptyHashMap
	}
	if m == nil || m.count == 0 {
		return out
	}
	if m.isTree {
		for d := 0; d < 16; d++ {
			out[d] = m.childAt(d)
		}
		return out
	}
	var buckets [16][]Ref
	for _, e := range m.entries {
		d := e.value.(*MapEntry).key.Hash().Digit(int(shift))
		buckets[d] = append(buckets[d], e)
	}
	for d := 0; d < 16; d++ {
		if len(buckets[d]) > 0 {
			out[d] = &HashMap{count: int64(len(buckets[d])), entries: buckets[d]}
		}
	}
	return out
}

func (a *HashMap) refEqual(b *HashMap) bool {
	if a == b {
		return true
	}
	if a.count != b.count {
		return false
	}
	return Hash(a).Equals(Hash(b))
}

func mustResolveKeyCell(e *MapEntry) Cell {
	return e.key.value
}

// CellsEqual reports whether two cells have equal canonical encodings.
func CellsEqual(a, b Cell) bool {
	return Hash(a).Equals(Hash(b))
}

// --- Cell interface ------------------------------------------------------

func (m *HashMap) Tag() byte { return TagMap }

func (m *HashMap) WriteBody(w *Writer) {
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

func (m *HashMap) RefCount() int {
	if !m.isTree {
		return len(m.entries)
	}
	return len(m.kids)
}

func (m *HashMap) GetRef(i int) Ref {
	if !m.isTree {
		return m.entries[i]
	}
	return m.kids[i]
}

func (m *HashMap) UpdateRefs(f func(Ref) Ref) Cell {
	if !m.isTree {
		entries := make([]Ref, len(m.entries))
		for i, e := range m.entries {
			entries[i] = f(e)
		}
		return &HashMap{count: m.count, entries: entries}
	}
	kids := make([]Ref, len(m.kids))
	for i, k := range m.kids {
		kids[i] = f(k)
	}
	return &HashMap{count: m.count, isTree: true, shift: m.shift, mask: m.mask, kids: kids}
}

func (m *HashMap) Validate() error {
	if !m.isTree {
		if int64(len(m.entries)) != m.count {
			return badFormat("hashmap leaf count mismatch: %d entries, count %d", len(m.entries), m.count)
		}
		if m.count > LeafMax {
			return badFormat("hashmap leaf exceeds LeafMax: %d", m.count)
		}
		return nil
	}
	if m.count <= LeafMax {
		return badFormat("hashmap tree node at or below LeafMax: %d", m.count)
	}
	popcount := 0
	for d := 0; d < 16; d++ {
		if m.mask&(uint16(1)<<uint(d)) != 0 {
			popcount++
		}
	}
	if popcount != len(m.kids) {
		return badFormat("hashmap mask/children mismatch: mask has %d bits, %d children", popcount, len(m.kids))
	}
	return nil
}

func decodeHashMap(r *Reader) (Cell, error) {
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
		return &HashMap{count: int64(count), entries: entries}, nil
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
		return nil, badFormat("hashmap tree node has empty mask")
	}
	kids := make([]Ref, n)
	for i := range kids {
		kids[i], err = r.ReadRef()
		if err != nil {
			return nil, err
		}
	}
	return &HashMap{count: int64(count), isTree: true, shift: uint(shift), mask: mask, kids: kids}, nil
}
