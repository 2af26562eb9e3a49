package data

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// roundTrip encodes c and decodes it back, asserting the result equals c —
// the property every cell kind's canonical encoding must satisfy per spec §3.
func roundTrip(t *testing.T, c Cell) Cell {
	encoded := Encode(c)
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, c, decoded)
	return decoded
}

func TestPrimitiveRoundTrips(t *testing.T) {
	roundTrip(t, Nil)
	roundTrip(t, Bool(true))
	roundTrip(t, Bool(false))
	roundTrip(t, Long(0))
	roundTrip(t, Long(-1))
	roundTrip(t, Long(1<<40))
	roundTrip(t, Long(-(1 << 40)))
	roundTrip(t, Double(0))
	roundTrip(t, Double(math.Copysign(0, -1)))
	roundTrip(t, Double(3.14159265358979))
	roundTrip(t, Char('a'))
	roundTrip(t, Char('世'))
	roundTrip(t, CString(""))
	roundTrip(t, CString("hello, cascade"))
	roundTrip(t, Blob(nil))
	roundTrip(t, Blob([]byte{1, 2, 3, 4}))
	roundTrip(t, Symbol("foo"))
	roundTrip(t, Keyword("bar"))
	roundTrip(t, Address(0))
	roundTrip(t, Address(12345))

	var key AccountKey
	for i := range key {
		key[i] = byte(i)
	}
	roundTrip(t, key)
}

func TestDoubleDistinguishesNegativeZero(t *testing.T) {
	negZero := Double(math.Copysign(0, -1))
	require.NotEqual(t, Encode(Double(0.0)), Encode(negZero))
}

func TestCStringRejectsInvalidUTF8(t *testing.T) {
	require.Error(t, CString([]byte{0xff, 0xfe}).Validate())
}

func TestSymbolRejectsEmptyAndOverlong(t *testing.T) {
	require.Error(t, Symbol("").Validate())

	long := make([]byte, 256)
	require.Error(t, Symbol(long).Validate())
}

func TestAddressRejectsNegative(t *testing.T) {
	require.Error(t, Address(-1).Validate())
}

func TestHashIsDeterministicAndContentSensitive(t *testing.T) {
	a := Long(42)
	b := Long(42)
	c := Long(43)

	require.Equal(t, Hash(a), Hash(b))
	require.NotEqual(t, Hash(a), Hash(c))
}

func TestAccountKeyFromHexRoundTrips(t *testing.T) {
	var key AccountKey
	for i := range key {
		key[i] = byte(i * 3)
	}
	hex := key.ToHexString(32)

	decoded, ok := AccountKeyFromHex(hex)
	require.True(t, ok)
	require.Equal(t, key, decoded)
}

func TestAccountKeyFromHexRejectsGarbage(t *testing.T) {
	_, ok := AccountKeyFromHex("not-hex-at-all")
	require.False(t, ok)
}

func TestAccountKeyLessIsAStrictOrder(t *testing.T) {
	var a, b AccountKey
	a[31] = 1
	b[31] = 2

	require.True(t, a.Less(b))
	require.False(t, b.Less(a))
	require.False(t, a.Less(a))
}
