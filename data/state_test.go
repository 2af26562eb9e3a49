package data

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateRoundTripsThroughEncoding(t *testing.T) {
	accounts := EmptyVector.Conj(EmbedRef(NewAccountStatus(testAccountKey(1), 100)))
	peers := EmptyBlobMap.Assoc(testAccountKey(2), EmbedRef(NewPeerStatus(testAccountKey(2), 10)))
	s := NewState(accounts, peers, nil, nil)

	decoded, err := Decode(Encode(s))
	require.NoError(t, err)

	got := decoded.(*State)
	require.Equal(t, int64(1), got.Accounts().Count())
	require.Equal(t, int64(1), got.Peers().Count())
	require.Equal(t, int64(10), got.StakeOf(testAccountKey(2)))
}

func TestStateStakeOfMissingPeerIsZero(t *testing.T) {
	s := NewState(nil, nil, nil, nil)
	require.Equal(t, int64(0), s.StakeOf(testAccountKey(9)))
}

func TestStateTotalStakeSumsAllPeers(t *testing.T) {
	peers := EmptyBlobMap.
		Assoc(testAccountKey(1), EmbedRef(NewPeerStatus(testAccountKey(1), 10))).
		Assoc(testAccountKey(2), EmbedRef(NewPeerStatus(testAccountKey(2), 20)))
	s := NewState(nil, peers, nil, nil)
	require.Equal(t, int64(30), s.TotalStake())
}

func TestComputeTotalFundsSumsBalancesStakesAndSchedule(t *testing.T) {
	accounts := EmptyVector.Conj(EmbedRef(NewAccountStatus(testAccountKey(1), 100)))
	peers := EmptyBlobMap.Assoc(testAccountKey(2), EmbedRef(NewPeerStatus(testAccountKey(2), 50)))

	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	scheduled := EmptyVector.Conj(EmbedRef(Sign(priv, testAccountKey(3), NewTransfer(Address(0), 1, Address(1), 25))))
	schedule := EmptyBlobMap.Assoc(Address(1), EmbedRef(scheduled))

	s := NewState(accounts, peers, nil, schedule)
	require.Equal(t, int64(175), ComputeTotalFunds(s))
}

func TestStateWithersReplaceOnlyTheirOwnComponent(t *testing.T) {
	s := NewState(nil, nil, nil, nil)
	accounts := EmptyVector.Conj(EmbedRef(NewAccountStatus(testAccountKey(1), 5)))
	withAccounts := s.WithAccounts(accounts)

	require.Equal(t, int64(1), withAccounts.Accounts().Count())
	require.Equal(t, s.Peers(), withAccounts.Peers())
	require.Equal(t, s.Globals(), withAccounts.Globals())
	require.Equal(t, s.Schedule(), withAccounts.Schedule())
}

func TestDecodeStateRejectsNonVectorAccounts(t *testing.T) {
	w := NewWriter()
	w.WriteRef(EmbedRef(Long(1)))
	w.WriteRef(EmbedRef(EmptyBlobMap))
	w.WriteRef(EmbedRef(EmptyVector))
	w.WriteRef(EmbedRef(EmptyBlobMap))
	frame := append([]byte{TagRecord, RecordState}, w.Bytes()...)

	_, err := Decode(frame)
	require.Error(t, err)
}
