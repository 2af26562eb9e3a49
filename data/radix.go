package data

import "math/bits"

// popcountBelow returns the number of set bits in mask below bit position d,
// i.e. the index a child at digit d occupies within a mask-ordered child
// array.
func popcountBelow(mask uint16, d int) int {
	return bits.OnesCount16(mask & ((uint16(1) << uint(d)) - 1))
}

func cloneRefSlice(s []Ref) []Ref {
	out := make([]Ref, len(s))
	copy(out, s)
	return out
}

func insertRefAt(s []Ref, idx int, r Ref) []Ref {
	out := make([]Ref, len(s)+1)
	copy(out, s[:idx])
	out[idx] = r
	copy(out[idx+1:], s[idx:])
	return out
}

func removeRefAt(s []Ref, idx int) []Ref {
	out := make([]Ref, len(s)-1)
	copy(out, s[:idx])
	copy(out[idx:], s[idx+1:])
	return out
}
