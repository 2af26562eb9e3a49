package executor

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/hash"
)

func twoAccountState(balance0, balance8 int64) *data.State {
	accounts := data.VectorOf(
		data.NewRef(data.NewAccountStatus(data.AccountKey{0}, balance0)),
	)
	for i := 1; i < 8; i++ {
		accounts = accounts.Conj(data.NewRef(data.NewAccountStatus(data.AccountKey{byte(i)}, 0)))
	}
	accounts = accounts.Conj(data.NewRef(data.NewAccountStatus(data.AccountKey{8}, balance8)))
	return data.NewState(accounts, nil, nil, nil)
}

func TestApplyTransferMovesBalanceAndChargesJuice(t *testing.T) {
	s := twoAccountState(1_000_000, 9_000_000)
	transfer := data.NewTransfer(0, 1, 8, 100)
	var proposer data.AccountKey

	next, err := Apply(transfer, proposer, s)
	require.NoError(t, err)

	origin := next.Accounts().Get(0).Value().(*data.AccountStatus)
	dest := next.Accounts().Get(8).Value().(*data.AccountStatus)
	require.Equal(t, int64(999_900-TransferJuice), origin.Balance())
	require.Equal(t, int64(1), origin.Sequence())
	require.Equal(t, int64(9_000_100), dest.Balance())

	ps, ok := next.Peers().Get(proposer)
	require.True(t, ok)
	require.Equal(t, int64(TransferJuice), ps.Value().(*data.PeerStatus).Stake())
}

func TestApplyTransferPreservesTotalFunds(t *testing.T) {
	s := twoAccountState(1_000_000, 9_000_000)
	before := data.ComputeTotalFunds(s)

	next, err := Apply(data.NewTransfer(0, 1, 8, 100), data.AccountKey{}, s)
	require.NoError(t, err)

	require.Equal(t, before, data.ComputeTotalFunds(next))
}

func TestApplyTransferRejectsWrongSequence(t *testing.T) {
	s := twoAccountState(1_000_000, 9_000_000)
	_, err := Apply(data.NewTransfer(0, 2, 8, 100), data.AccountKey{}, s)
	require.Error(t, err)
}

func TestApplyTransferRejectsInsufficientBalance(t *testing.T) {
	s := twoAccountState(50, 0)
	_, err := Apply(data.NewTransfer(0, 1, 8, 100), data.AccountKey{}, s)
	require.Error(t, err)
}

func TestApplyTransferSelfTransferOnlyChargesJuice(t *testing.T) {
	s := twoAccountState(1_000, 0)
	next, err := Apply(data.NewTransfer(0, 1, 0, 100), data.AccountKey{}, s)
	require.NoError(t, err)

	origin := next.Accounts().Get(0).Value().(*data.AccountStatus)
	require.Equal(t, int64(1_000-TransferJuice), origin.Balance())
}

func TestApplyBlockSkipsUnverifiableTransactionButAppliesRest(t *testing.T) {
	s := twoAccountState(1_000_000, 9_000_000)

	good := data.NewTransfer(0, 1, 8, 100)

	signerPub, signerPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, otherPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	var claimedSigner data.AccountKey
	copy(claimedSigner[:], signerPub)
	forged := data.Sign(otherPriv, claimedSigner, good)
	genuine := data.Sign(signerPriv, claimedSigner, good)

	var proposer data.AccountKey
	store := memStoreStub{}
	block := data.NewBlock(0, proposer, data.VectorOf(data.NewRef(forged), data.NewRef(genuine)))

	next, err := ApplyBlock(block, s, store)
	require.NoError(t, err)
	// The forged signature never verifies, so that copy is skipped; the
	// genuinely signed copy after it is applied exactly once.
	origin := next.Accounts().Get(0).Value().(*data.AccountStatus)
	require.Equal(t, int64(1_000_000-100-TransferJuice), origin.Balance())
	dest := next.Accounts().Get(8).Value().(*data.AccountStatus)
	require.Equal(t, int64(9_000_100), dest.Balance())
}

type memStoreStub struct{}

func (memStoreStub) Put(h hash.Hash, encoded []byte) error { return nil }
func (memStoreStub) Get(h hash.Hash) ([]byte, bool, error) { return nil, false, nil }
func (memStoreStub) Has(h hash.Hash) (bool, error)         { return false, nil }
