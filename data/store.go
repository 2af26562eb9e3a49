package data

import (
	"github.com/mosaicnetworks/cascade/hash"
	"github.com/mosaicnetworks/cascade/internal/errs"
)

// Store is the minimal content-addressed persistence contract the data
// package depends on: put, get, and has, keyed by hash of the canonical
// encoding. Concrete backends (in-memory, on-disk) live in package store.
type Store interface {
	Put(h hash.Hash, encoded []byte) error
	Get(h hash.Hash) ([]byte, bool, error)
	Has(h hash.Hash) (bool, error)
}

// Resolve returns the cell a ref denotes, reading through s if the ref is
// indirect. A missing cell is reported as errs.MissingData via the caller
// (see resolveHash), recoverable by fetching the hash from the network.
func (r Ref) Resolve(s Store) (Cell, error) {
	if r.value != nil {
		return r.value, nil
	}
	return resolveHash(s, r.hash)
}

func resolveHash(s Store, h hash.Hash) (Cell, error) {
	encoded, ok, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.NewMissing(h.String())
	}
	return Decode(encoded)
}

// Persist writes the canonical encoding of every non-embedded descendant of
// c transitively to s, and returns a new ref whose embedded/indirect shape
// and status reflect that it (and everything it points to) is now durable.
// Cells never form cycles (content-addressing makes a cycle require a hash
// to contain itself), so this is plain recursion with no visited set.
func Persist(c Cell, s Store) (Ref, error) {
	rewritten := c.UpdateRefs(func(child Ref) Ref {
		if child.status >= StatusPersisted {
			return child
		}
		if child.IsIndirect() {
			return child.WithStatus(StatusPersisted)
		}
		newChild, err := Persist(child.value, s)
		if err != nil {
			// UpdateRefs callbacks cannot return an error, so a failed
			// child write is not reported: the child ref is kept unchanged,
			// still holding its value in memory.
			return child
		}
		return newChild
	})

	ref := NewRef(rewritten)
	if ref.IsIndirect() {
		if err := s.Put(ref.Hash(), encodeCell(rewritten)); err != nil {
			return Ref{}, err
		}
	}
	return ref.WithStatus(StatusPersisted), nil
}
