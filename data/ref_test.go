package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRefEmbedsSmallCellsAndIndirectsLargeOnes(t *testing.T) {
	small := Long(1)
	require.True(t, NewRef(small).IsEmbedded())

	big := Blob(make([]byte, MaxEmbedded+1))
	ref := NewRef(big)
	require.True(t, ref.IsIndirect())
	require.Equal(t, Hash(big), ref.Hash())
}

func TestRefEqualComparesByHashAcrossRepresentations(t *testing.T) {
	c := Long(7)
	embedded := EmbedRef(c)
	indirect := IndirectRef(Hash(c))

	require.True(t, embedded.Equal(indirect))
}

func TestRefStatusLatticeAdvancesForward(t *testing.T) {
	r := IndirectRef(Hash(Long(1)))
	require.Equal(t, StatusStored, r.Status())

	r2 := r.WithStatus(StatusPersisted)
	require.Equal(t, StatusPersisted, r2.Status())
	require.Equal(t, StatusStored, r.Status(), "WithStatus must not mutate the receiver")
}

func TestIndirectRefHashDoesNotRequireResolution(t *testing.T) {
	h := Hash(CString("unresolved"))
	r := IndirectRef(h)
	require.Equal(t, h, r.Hash())
	require.Nil(t, r.Value())
}
