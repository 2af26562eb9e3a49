package data

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountStatusRoundTripsThroughEncoding(t *testing.T) {
	a := NewAccountStatus(testAccountKey(3), 500).WithSequence(2)

	decoded, err := Decode(Encode(a))
	require.NoError(t, err)

	got := decoded.(*AccountStatus)
	require.Equal(t, testAccountKey(3), got.Key())
	require.Equal(t, int64(500), got.Balance())
	require.Equal(t, int64(2), got.Sequence())
}

func TestAccountStatusWithBalanceLeavesSequenceUnchanged(t *testing.T) {
	a := NewAccountStatus(testAccountKey(1), 10).WithSequence(3)
	updated := a.WithBalance(20)
	require.Equal(t, int64(20), updated.Balance())
	require.Equal(t, int64(3), updated.Sequence())
}

func TestAccountStatusValidateRejectsNegativeBalance(t *testing.T) {
	a := NewAccountStatus(testAccountKey(1), -1)
	require.Error(t, a.Validate())
}

func TestAccountStatusValidateRejectsNegativeSequence(t *testing.T) {
	a := NewAccountStatus(testAccountKey(1), 0).WithSequence(-1)
	require.Error(t, a.Validate())
}

func TestDecodeAccountStatusRejectsNegativeBalance(t *testing.T) {
	w := NewWriter()
	var key AccountKey
	w.WriteRaw(key[:])
	w.WriteSVLQ(-5)
	w.WriteSVLQ(0)
	frame := append([]byte{TagRecord, RecordAccountStatus}, w.Bytes()...)

	_, err := Decode(frame)
	require.Error(t, err)
}
