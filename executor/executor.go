// Package executor applies transactions to a State, the deterministic state
// transition function every peer runs identically over consensed blocks so
// that independently-computed states converge, per spec §4.1/§4.3.
//
// Transfer is the sole transaction kind the Non-goals leave room for (no
// general contract VM), so there is no dispatch table here beyond a single
// type switch in Apply.
package executor

import (
	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/internal/errs"
)

// TransferJuice is the fixed execution cost of a Transfer, deducted from the
// origin's balance and credited to the stake of the peer that proposed the
// block carrying it. Crediting it forward, rather than burning it, is what
// keeps computeTotalFunds invariant across a successful apply — the spec
// names the invariant but leaves where execution cost goes unspecified.
const TransferJuice int64 = 1

// Apply runs tx against s and returns the resulting State. proposer is the
// peer whose block carried tx; it receives tx's juice as stake.
func Apply(tx data.Transaction, proposer data.AccountKey, s *data.State) (*data.State, error) {
	switch t := tx.(type) {
	case *data.Transfer:
		return applyTransfer(t, proposer, s)
	default:
		return nil, errs.Newf(errs.TransactionException, "unsupported transaction kind %T", tx)
	}
}

func applyTransfer(t *data.Transfer, proposer data.AccountKey, s *data.State) (*data.State, error) {
	accounts := s.Accounts()

	originIdx := t.Origin().LongValue()
	origin, err := accountAt(accounts, originIdx)
	if err != nil {
		return nil, err
	}
	if t.Sequence() != origin.Sequence()+1 {
		return nil, errs.Newf(errs.TransactionException,
			"account %d: sequence %d != expected %d", originIdx, t.Sequence(), origin.Sequence()+1)
	}
	cost := t.Amount() + TransferJuice
	if origin.Balance() < cost {
		return nil, errs.Newf(errs.TransactionException,
			"account %d: balance %d insufficient for cost %d", originIdx, origin.Balance(), cost)
	}

	toIdx := t.To().LongValue()
	dest, err := accountAt(accounts, toIdx)
	if err != nil {
		return nil, err
	}

	if toIdx == originIdx {
		self := origin.WithSequence(t.Sequence()).WithBalance(origin.Balance() - cost + t.Amount())
		accounts = accounts.Assoc(originIdx, data.EmbedRef(self))
	} else {
		newOrigin := origin.WithSequence(t.Sequence()).WithBalance(origin.Balance() - cost)
		newDest := dest.WithBalance(dest.Balance() + t.Amount())
		accounts = accounts.Assoc(originIdx, data.EmbedRef(newOrigin))
		accounts = accounts.Assoc(toIdx, data.EmbedRef(newDest))
	}

	peers := creditJuice(s.Peers(), proposer, TransferJuice)
	return s.WithAccounts(accounts).WithPeers(peers), nil
}

func accountAt(accounts *data.Vector, idx int64) (*data.AccountStatus, error) {
	if idx < 0 || idx >= accounts.Count() {
		return nil, errs.Newf(errs.TransactionException, "unknown account %d", idx)
	}
	acct, ok := accounts.Get(idx).Value().(*data.AccountStatus)
	if !ok {
		return nil, errs.Newf(errs.TransactionException, "account %d ref not resolved", idx)
	}
	return acct, nil
}

func creditJuice(peers *data.BlobMap, peerKey data.AccountKey, amount int64) *data.BlobMap {
	if ref, ok := peers.Get(peerKey); ok {
		ps := ref.Value().(*data.PeerStatus)
		return peers.Assoc(peerKey, data.EmbedRef(ps.WithStake(ps.Stake()+amount)))
	}
	return peers.Assoc(peerKey, data.EmbedRef(data.NewPeerStatus(peerKey, amount)))
}

// ApplyBlock resolves and applies every signed transaction in block against
// s, in order, skipping (rather than aborting the whole block on) any
// transaction that fails signature verification or rejects at Apply — a
// block is a peer's proposal, not a pre-validated unit, so one bad
// transaction from a malicious or out-of-sync proposer must not poison the
// rest. A failure to resolve a ref through store is not skipped: it is
// MissingData, recoverable by fetching and retrying, not a bad transaction.
func ApplyBlock(block *data.Block, s *data.State, store data.Store) (*data.State, error) {
	for _, ref := range block.Transactions().ToSlice() {
		cell, err := ref.Resolve(store)
		if err != nil {
			return nil, err
		}
		signed, ok := cell.(*data.SignedData)
		if !ok || !signed.Verify() {
			continue
		}
		payload, err := signed.Value().Resolve(store)
		if err != nil {
			return nil, err
		}
		tx, ok := payload.(data.Transaction)
		if !ok {
			continue
		}
		next, err := Apply(tx, block.PeerKey(), s)
		if err != nil {
			continue
		}
		s = next
	}
	return s, nil
}
