package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/pki"
)

func blockRef(t *testing.T, peerKey data.AccountKey, ts int64, n int) data.Ref {
	t.Helper()
	txs := data.EmptyVector
	for i := 0; i < n; i++ {
		txs = txs.Conj(data.EmbedRef(data.NewTransfer(data.Address(0), int64(i+1), data.Address(1), 1)))
	}
	return data.EmbedRef(data.NewBlock(ts, peerKey, txs))
}

func chainOf(t *testing.T, peerKey data.AccountKey, lengths ...int) *data.Vector {
	t.Helper()
	v := data.EmptyVector
	for i, n := range lengths {
		v = v.Conj(blockRef(t, peerKey, int64(i), n))
	}
	return v
}

func genKey(t *testing.T) *pki.KeyPair {
	t.Helper()
	k, err := pki.Generate()
	require.NoError(t, err)
	return k
}

func TestSelectWinningChainPicksMajoritySupportedChain(t *testing.T) {
	owner := genKey(t)
	chain := chainOf(t, owner.AccountKey(), 1, 1, 1)

	entries := []peerEntry{
		{key: owner.AccountKey(), order: data.NewOrder(chain, 0, 0, 0), stake: 40},
		{key: owner.AccountKey(), order: data.NewOrder(chain, 0, 0, 0), stake: 40},
	}
	winner := selectWinningChain(entries, 100, data.EmptyVector)
	require.True(t, winner.Count() == chain.Count())
	require.Equal(t, data.Hash(chain), data.Hash(winner))
}

func TestSelectWinningChainFallsBackWithoutMajority(t *testing.T) {
	owner := genKey(t)
	chain := chainOf(t, owner.AccountKey(), 1, 1)
	fallback := chainOf(t, owner.AccountKey(), 1)

	entries := []peerEntry{
		{key: owner.AccountKey(), order: data.NewOrder(chain, 0, 0, 0), stake: 30},
	}
	winner := selectWinningChain(entries, 100, fallback)
	require.Equal(t, data.Hash(fallback), data.Hash(winner))
}

func TestChainBetterPrefersLongerChain(t *testing.T) {
	a := genKey(t)
	b := genKey(t)
	short := candidateChain{blocks: chainOf(t, a.AccountKey(), 1), owner: a.AccountKey()}
	long := candidateChain{blocks: chainOf(t, b.AccountKey(), 1, 1), owner: b.AccountKey()}
	require.True(t, chainBetter(long, short))
	require.False(t, chainBetter(short, long))
}

func TestChainBetterTieBreaksByPeerKeyOnHashTie(t *testing.T) {
	a := genKey(t)
	b := genKey(t)
	chain := chainOf(t, a.AccountKey(), 1)
	x := candidateChain{blocks: chain, owner: a.AccountKey()}
	y := candidateChain{blocks: chain, owner: b.AccountKey()}
	require.Equal(t, a.AccountKey().Less(b.AccountKey()), chainBetter(x, y))
	require.Equal(t, b.AccountKey().Less(a.AccountKey()), chainBetter(y, x))
}

func TestReconcileOwnBlocksAdoptsWinnerAndKeepsPendingTail(t *testing.T) {
	owner := genKey(t)
	prev := chainOf(t, owner.AccountKey(), 1, 1, 1)
	winner := chainOf(t, owner.AccountKey(), 1, 1)

	result := reconcileOwnBlocks(prev, winner, 0)
	require.Equal(t, int64(2), data.CommonPrefixLength(result, winner))
	require.Equal(t, prev.Count(), result.Count())
}

func TestReconcileOwnBlocksNeverCutsBelowConsensusPoint(t *testing.T) {
	owner := genKey(t)
	prev := chainOf(t, owner.AccountKey(), 1, 1, 1)
	divergent := chainOf(t, owner.AccountKey(), 2, 2)

	result := reconcileOwnBlocks(prev, divergent, 3)
	require.Equal(t, data.Hash(prev), data.Hash(result))
}

func TestAdvanceProposalPointRequiresTwoThirdsStake(t *testing.T) {
	owner := genKey(t)
	blocks := chainOf(t, owner.AccountKey(), 1, 1, 1)
	entries := []peerEntry{
		{order: data.NewOrder(blocks, 0, 0, 0), stake: 70},
		{order: data.NewOrder(data.EmptyVector, 0, 0, 0), stake: 30},
	}
	require.Equal(t, int64(3), advanceProposalPoint(entries, blocks, 100, 0))
}

func TestAdvanceProposalPointNeverRegresses(t *testing.T) {
	owner := genKey(t)
	blocks := chainOf(t, owner.AccountKey(), 1)
	entries := []peerEntry{
		{order: data.NewOrder(data.EmptyVector, 0, 0, 0), stake: 100},
	}
	require.Equal(t, int64(1), advanceProposalPoint(entries, blocks, 100, 1))
}

func TestAdvanceConsensusPointRequiresProposalAtLevel(t *testing.T) {
	owner := genKey(t)
	blocks := chainOf(t, owner.AccountKey(), 1, 1)
	entries := []peerEntry{
		{order: data.NewOrder(blocks, 2, 0, 0), stake: 40},
		{order: data.NewOrder(blocks, 1, 0, 0), stake: 40},
		{order: data.NewOrder(blocks, 2, 0, 0), stake: 20},
	}
	require.Equal(t, int64(1), advanceConsensusPoint(entries, blocks, 2, 100, 0))
}
