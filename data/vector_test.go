package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorConjGetCount(t *testing.T) {
	v := EmptyVector
	for i := int64(0); i < 40; i++ {
		v = v.Conj(EmbedRef(Long(i)))
	}
	require.Equal(t, int64(40), v.Count())
	for i := int64(0); i < 40; i++ {
		require.Equal(t, Long(i), v.Get(i).Value())
	}
}

func TestVectorAssocOverwritesInPlace(t *testing.T) {
	v := VectorOf(EmbedRef(Long(1)), EmbedRef(Long(2)), EmbedRef(Long(3)))
	v2 := v.Assoc(1, EmbedRef(Long(99)))

	require.Equal(t, Long(2), v.Get(1).Value())
	require.Equal(t, Long(99), v2.Get(1).Value())
	require.Equal(t, v.Count(), v2.Count())
}

func TestVectorPopRemovesLast(t *testing.T) {
	v := VectorOf(EmbedRef(Long(1)), EmbedRef(Long(2)), EmbedRef(Long(3)))
	v2 := v.Pop()

	require.Equal(t, int64(2), v2.Count())
	require.Equal(t, Long(2), v2.Last().Value())
}

func TestVectorRoundTripsThroughEncoding(t *testing.T) {
	v := EmptyVector
	for i := int64(0); i < 50; i++ {
		v = v.Conj(EmbedRef(Long(i * i)))
	}
	roundTrip(t, v)
}

func TestCommonPrefixLengthFindsDivergencePoint(t *testing.T) {
	a := VectorOf(EmbedRef(Long(1)), EmbedRef(Long(2)), EmbedRef(Long(3)))
	b := VectorOf(EmbedRef(Long(1)), EmbedRef(Long(2)), EmbedRef(Long(99)))

	require.Equal(t, int64(2), CommonPrefixLength(a, b))
}

func TestCommonPrefixLengthIdenticalVectors(t *testing.T) {
	a := VectorOf(EmbedRef(Long(1)), EmbedRef(Long(2)))
	b := VectorOf(EmbedRef(Long(1)), EmbedRef(Long(2)))

	require.Equal(t, int64(2), CommonPrefixLength(a, b))
}

func TestCommonPrefixLengthEmptyVectors(t *testing.T) {
	require.Equal(t, int64(0), CommonPrefixLength(EmptyVector, EmptyVector))
}
