package data

import "github.com/mosaicnetworks/cascade/hash"

// HashSet is the same 16-ary radix trie as HashMap but stores element refs
// directly instead of MapEntry pairs — there is no value half to carry.
type HashSet struct {
	count int64

	isTree bool
	shift  uint
	mask   uint16
	kids   []Ref

	items []Ref // leaf: element refs
}

// EmptyHashSet is the unique zero-element HashSet.
var EmptyHashSet = &HashSet{}

func (s *HashSet) Count() int64 { return s.count }

// Contains reports whether elem is a member of s.
func (s *HashSet) Contains(elem Cell) bool {
	return hsContains(s, Hash(elem))
}

// Conj returns a new HashSet with elem added.
func (s *HashSet) Conj(elem Cell) *HashSet {
	return hsConj(s, 0, Hash(elem), NewRef(elem))
}

// Disj returns a new HashSet with elem removed.
func (s *HashSet) Disj(elem Cell) *HashSet {
	out, _ := hsDisj(s, Hash(elem))
	if out == nil {
		return EmptyHashSet
	}
	return out
}

// Items returns every element ref, in trie order.
func (s *HashSet) Items() []Ref {
	out := make([]Ref, 0, s.count)
	s.collect(&out)
	return out
}

func (s *HashSet) collect(out *[]Ref) {
	if !s.isTree {
		*out = append(*out, s.items...)
		return
	}
	for _, k := range s.kids {
		k.value.(*HashSet).collect(out)
	}
}

func hsContains(node *HashSet, eh hash.Hash) bool {
	if node == nil || node.count == 0 {
		return false
	}
	if !node.isTree {
		for _, it := range node.items {
			if it.Hash().Equals(eh) {
				return true
			}
		}
		return false
	}
	d := int(eh.Digit(int(node.shift)))
	if node.mask&(uint16(1)<<uint(d)) == 0 {
		return false
	}
	idx := popcountBelow(node.mask, d)
	return hsContains(node.kids[idx].value.(*HashSet), eh)
}

func hsConj(node *HashSet, depth uint, eh hash.Hash, item Ref) *HashSet {
	if node == nil || node.count == 0 {
		return &HashSet{count: 1, items: []Ref{item}}
	}
	if !node.isTree {
		for _, it := range node.items {
			if it.Hash().Equals(eh) {
				return node
			}
		}
		items := append(cloneRefSlice(node.items), item)
		if int64(len(items)) <= LeafMax {
			return &HashSet{count: node.count + 1, items: items}
		}
		return rebuildSetTree(items, depth)
	}

	d := int(eh.Digit(int(node.shift)))
	bit := uint16(1) << uint(d)
	if node.mask&bit != 0 {
		idx := popcountBelow(node.mask, d)
		child := node.kids[idx].value.(*HashSet)
		newChild := hsConj(child, node.shift+1, eh, item)
		if newChild.count == child.count {
			return node
		}
		kids := cloneRefSlice(node.kids)
		kids[idx] = EmbedRef(newChild)
		return &HashSet{count: node.count + 1, isTree: true, shift: node.shift, mask: node.mask, kids: kids}
	}
	idx := popcountBelow(node.mask, d)
	newChild := &HashSet{count: 1, items: []Ref{item}}
	kids := insertRefAt(node.kids, idx, EmbedRef(newChild))
	return &HashSet{count: node.count + 1, isTree: true, shift: node.shift, mask: node.mask | bit, kids: kids}
}

func hsDisj(node *HashSet, eh hash.Hash) (*HashSet, bool) {
	if node == nil || node.count == 0 {
		return node, false
	}
	if !node.isTree {
		for i, it := range node.items {
			if it.Hash().Equals(eh) {
				items := removeRefAt(node.items, i)
				if len(items) == 0 {
					return nil, true
				}
				return &HashSet{count: node.count - 1, items: items}, true
			}
		}
		return node, false
	}
	d := int(eh.Digit(int(node.shift)))
	bit := uint16(1) << uint(d)
	if node.mask&bit == 0 {
		return node, false
	}
	idx := popcountBelow(node.mask, d)
	child := node.kids[idx].value.(*HashSet)
	newChild, removed := hsDisj(child, eh)
	if !removed {
		return node, false
	}
	newCount := node.count - 1
	if newCount <= LeafMax {
		if newCount == 0 {
			return nil, true
		}
		all := node.Items()
		items := make([]Ref, 0, newCount)
		for _, it := range all {
			if it.Hash().Equals(eh) {
				continue
			}
			items = append(items, it)
		}
		return &HashSet{count: newCount, items: items}, true
	}
	if newChild == nil {
		kids := removeRefAt(node.kids, idx)
		return &HashSet{count: newCount, isTree: true, shift: node.shift, mask: node.mask &^ bit, kids: kids}, true
	}
	kids := cloneRefSlice(node.kids)
	kids[idx] = EmbedRef(newChild)
	return &HashSet{count: newCount, isTree: true, shift: node.shift, mask: node.mask, kids: kids}, true
}

func rebuildSetTree(items []Ref, depth uint) *HashSet {
	if int64(len(items)) <= LeafMax {
		return &HashSet{count: int64(len(items)), items: items}
	}
	var buckets [16][]Ref
	for _, it := range items {
		d := it.Hash().Digit(int(depth))
		buckets[d] = append(buckets[d], it)
	}
	var mask uint16
	var kids []Ref
	for d := 0; d < 16; d++ {
		if len(buckets[d]) == 0 {
			continue
		}
		mask |= uint16(1) << uint(d)
		kids = append(kids, EmbedRef(rebuildSetTree(buckets[d], depth+1)))
	}
	return &HashSet{count: int64(len(items)), isTree: true, shift: depth, mask: mask, kids: kids}
}

// SetOp combines two sets by applying keep to each candidate element's
// presence on either side: Union keeps if present on either side,
// Intersection keeps only if present on both, DiffLeft/DiffRight keep only
// elements exclusive to one side.
type SetOp func(inA, inB bool) bool

func Union(inA, inB bool) bool     { return inA || inB }
func Intersection(inA, inB bool) bool { return inA && inB }
func DiffLeft(inA, inB bool) bool  { return inA && !inB }
func DiffRight(inA, inB bool) bool { return !inA && inB }

// ApplyOp builds the set of elements from a and b selected by op, the
// generic combinator spec §4.2 describes union/intersection/diff in terms
// of.
func ApplyOp(a, b *HashSet, op SetOp) *HashSet {
	if a == nil {
		a = EmptyHashSet
	}
	if b == nil {
		b = EmptyHashSet
	}
	result := EmptyHashSet
	seen := make(map[hash.Hash]bool, a.count+b.count)
	for _, it := range a.Items() {
		h := it.Hash()
		seen[h] = true
		if op(true, b.Contains(resolveRefCell(it))) {
			result = hsConj(result, 0, h, it)
		}
	}
	for _, it := range b.Items() {
		h := it.Hash()
		if seen[h] {
			continue
		}
		if op(false, true) {
			result = hsConj(result, 0, h, it)
		}
	}
	return result
}

func resolveRefCell(r Ref) Cell {
	return r.value
}

// --- Cell interface ------------------------------------------------------

func (s *HashSet) Tag() byte { return TagSet }

func (s *HashSet) WriteBody(w *Writer) {
	w.WriteUVLQ(uint64(s.count))
	if !s.isTree {
		for _, it := range s.items {
			w.WriteRef(it)
		}
		return
	}
	_ = w.WriteByte(byte(s.shift))
	w.WriteUint16(s.mask)
	for _, k := range s.kids {
		w.WriteRef(k)
	}
}

func (s *HashSet) RefCount() int {
	if !s.isTree {
		return len(s.items)
	}
	return len(s.kids)
}

func (s *HashSet) GetRef(i int) Ref {
	if !s.isTree {
		return s.items[i]
	}
	return s.kids[i]
}

func (s *HashSet) UpdateRefs(f func(Ref) Ref) Cell {
	if !s.isTree {
		items := make([]Ref, len(s.items))
		for i, it := range s.items {
			items[i] = f(it)
		}
		return &HashSet{count: s.count, items: items}
	}
	kids := make([]Ref, len(s.kids))
	for i, k := range s.kids {
		kids[i] = f(k)
	}
	return &HashSet{count: s.count, isTree: true, shift: s.shift, mask: s.mask, kids: kids}
}

func (s *HashSet) Validate() error {
	if !s.isTree {
		if int64(len(s.items)) != s.count {
			return badFormat("hashset leaf count mismatch: %d items, count %d", len(s.items), s.count)
		}
		if s.count > LeafMax {
			return badFormat("hashset leaf exceeds LeafMax: %d", s.count)
		}
		return nil
	}
	if s.count <= LeafMax {
		return badFormat("hashset tree node at or below LeafMax: %d", s.count)
	}
	return nil
}

func decodeHashSet(r *Reader) (Cell, error) {
	count, err := r.ReadUVLQ()
	if err != nil {
		return nil, err
	}
	if count <= LeafMax {
		items := make([]Ref, count)
		for i := range items {
			items[i], err = r.ReadRef()
			if err != nil {
				return nil, err
			}
		}
		return &HashSet{count: int64(count), items: items}, nil
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
		return nil, badFormat("hashset tree node has empty mask")
	}
	kids := make([]Ref, n)
	for i := range kids {
		kids[i], err = r.ReadRef()
		if err != nil {
			return nil, err
		}
	}
	return &HashSet{count: int64(count), isTree: true, shift: uint(shift), mask: mask, kids: kids}, nil
}
