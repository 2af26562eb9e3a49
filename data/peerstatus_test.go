package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeerStatusRoundTripsThroughEncoding(t *testing.T) {
	p := NewPeerStatus(testAccountKey(4), 1000)

	decoded, err := Decode(Encode(p))
	require.NoError(t, err)

	got := decoded.(*PeerStatus)
	require.Equal(t, testAccountKey(4), got.PeerKey())
	require.Equal(t, int64(1000), got.Stake())
}

func TestPeerStatusWithStakeReturnsNewValue(t *testing.T) {
	p := NewPeerStatus(testAccountKey(1), 10)
	updated := p.WithStake(20)
	require.Equal(t, int64(10), p.Stake())
	require.Equal(t, int64(20), updated.Stake())
}

func TestPeerStatusValidateRejectsNegativeStake(t *testing.T) {
	p := NewPeerStatus(testAccountKey(1), -1)
	require.Error(t, p.Validate())
}

func TestDecodePeerStatusRejectsNegativeStake(t *testing.T) {
	w := NewWriter()
	var key AccountKey
	w.WriteRaw(key[:])
	w.WriteSVLQ(-1)
	frame := append([]byte{TagRecord, RecordPeerStatus}, w.Bytes()...)

	_, err := Decode(frame)
	require.Error(t, err)
}
