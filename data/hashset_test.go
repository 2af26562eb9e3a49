package data

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashSetConjContainsDisj(t *testing.T) {
	s := EmptyHashSet
	for i := 0; i < 150; i++ {
		s = s.Conj(Long(i))
	}
	require.Equal(t, int64(150), s.Count())
	require.True(t, s.Contains(Long(42)))
	require.False(t, s.Contains(Long(999)))

	s2 := s.Disj(Long(42))
	require.Equal(t, int64(149), s2.Count())
	require.False(t, s2.Contains(Long(42)))
	require.True(t, s.Contains(Long(42)), "original set must be unaffected")
}

func TestHashSetConjIsIdempotent(t *testing.T) {
	s := EmptyHashSet.Conj(Long(1)).Conj(Long(1))
	require.Equal(t, int64(1), s.Count())
}

func TestApplyOpUnionIntersectionDiff(t *testing.T) {
	a := EmptyHashSet.Conj(Long(1)).Conj(Long(2)).Conj(Long(3))
	b := EmptyHashSet.Conj(Long(2)).Conj(Long(3)).Conj(Long(4))

	union := ApplyOp(a, b, Union)
	require.Equal(t, int64(4), union.Count())

	intersection := ApplyOp(a, b, Intersection)
	require.Equal(t, int64(2), intersection.Count())
	require.True(t, intersection.Contains(Long(2)))
	require.True(t, intersection.Contains(Long(3)))

	diffLeft := ApplyOp(a, b, DiffLeft)
	require.Equal(t, int64(1), diffLeft.Count())
	require.True(t, diffLeft.Contains(Long(1)))

	diffRight := ApplyOp(a, b, DiffRight)
	require.Equal(t, int64(1), diffRight.Count())
	require.True(t, diffRight.Contains(Long(4)))
}

func TestHashSetRoundTripsThroughEncodingAtOverflow(t *testing.T) {
	s := EmptyHashSet
	for i := 0; i < 64; i++ {
		s = s.Conj(CString(fmt.Sprintf("item-%d", i)))
	}
	roundTrip(t, s)
}

// Mirrors the HashMap case: a forged tree-shaped node at or below LeafMax
// is not a smaller tree, it's malformed, since a genuine rebuild-on-overflow
// only ever produces a tree node once a leaf would exceed LeafMax.
func TestHashSetValidateRejectsTreeNodeAtLeafMax(t *testing.T) {
	forged := &HashSet{
		count:  LeafMax,
		isTree: true,
		shift:  4,
		mask:   0x0003,
		kids:   []Ref{EmbedRef(EmptyHashSet), EmbedRef(EmptyHashSet)},
	}
	require.Error(t, forged.Validate())
}
