package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeIsDeterministic(t *testing.T) {
	a := Compute([]byte("same bytes"))
	b := Compute([]byte("same bytes"))
	require.Equal(t, a, b)
}

func TestComputeIsContentSensitive(t *testing.T) {
	a := Compute([]byte("alpha"))
	b := Compute([]byte("beta"))
	require.NotEqual(t, a, b)
}

func TestHexRoundTrip(t *testing.T) {
	h := Compute([]byte("round trip me"))
	decoded, err := FromHex(h.String())
	require.NoError(t, err)
	require.Equal(t, h, decoded)
}

func TestFromHexRejectsWrongLength(t *testing.T) {
	_, err := FromHex("abcd")
	require.Error(t, err)
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	_, ok := FromBytes([]byte{1, 2, 3})
	require.False(t, ok)
}

func TestLessIsAStrictWeakOrder(t *testing.T) {
	var a, b Hash
	a[0] = 1
	b[0] = 2

	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(a))
}

func TestToHexStringAbbreviates(t *testing.T) {
	h := Compute([]byte("abbreviate"))
	require.Len(t, h.ToHexString(4), 8)
	require.Equal(t, h.String()[:8], h.ToHexString(4))
}

func TestDigitSplitsBytesIntoNibbles(t *testing.T) {
	var h Hash
	h[0] = 0xab
	require.Equal(t, byte(0xa), h.Digit(0))
	require.Equal(t, byte(0xb), h.Digit(1))
}
