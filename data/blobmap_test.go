package data

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlobMapAssocGetDissoc(t *testing.T) {
	m := EmptyBlobMap
	for i := 0; i < 100; i++ {
		m = m.Assoc(Blob([]byte(fmt.Sprintf("key-%03d", i))), EmbedRef(Long(i)))
	}
	require.Equal(t, int64(100), m.Count())

	for i := 0; i < 100; i++ {
		ref, ok := m.Get(Blob([]byte(fmt.Sprintf("key-%03d", i))))
		require.True(t, ok)
		require.Equal(t, Long(i), ref.Value())
	}

	m2 := m.Dissoc(Blob([]byte("key-050")))
	require.Equal(t, int64(99), m2.Count())
	_, ok := m2.Get(Blob([]byte("key-050")))
	require.False(t, ok)
}

func TestBlobMapAccountKeyKeys(t *testing.T) {
	var k1, k2 AccountKey
	k1[0], k2[0] = 1, 2

	m := EmptyBlobMap.Assoc(k1, EmbedRef(NewPeerStatus(k1, 10)))
	m = m.Assoc(k2, EmbedRef(NewPeerStatus(k2, 20)))

	require.Equal(t, int64(2), m.Count())
	ref, ok := m.Get(k1)
	require.True(t, ok)
	status := ref.Value().(*PeerStatus)
	require.Equal(t, int64(10), status.Stake())
}

func TestBlobMapRoundTripsThroughEncoding(t *testing.T) {
	m := EmptyBlobMap
	for i := 0; i < 40; i++ {
		m = m.Assoc(Blob([]byte(fmt.Sprintf("k%d", i))), EmbedRef(Long(i)))
	}
	roundTrip(t, m)
}
