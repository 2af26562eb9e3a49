package data

import "github.com/mosaicnetworks/cascade/hash"

// Status is a Ref's position in the monotone persistence lattice:
// Unknown < Stored < Persisted < Announced. A Ref only ever moves forward.
type Status int

const (
	StatusUnknown Status = iota
	StatusStored
	StatusPersisted
	StatusAnnounced
)

// Ref is a child reference: either Embedded (carries the cell itself) or
// Indirect (carries only the hash, resolved later through a Store).
type Ref struct {
	value  Cell
	hash   hash.Hash
	hashOK bool
	status Status
}

// EmbedRef wraps a cell as an embedded ref unconditionally, regardless of
// its encoded size; callers that want the size-gated embed-or-indirect
// choice should use NewRef instead.
func EmbedRef(c Cell) Ref {
	return Ref{value: c}
}

// IndirectRef builds a ref that carries only a hash.
func IndirectRef(h hash.Hash) Ref {
	return Ref{hash: h, hashOK: true, status: StatusStored}
}

// NewRef builds the canonical Ref for a cell: Embedded if the encoding fits
// within MaxEmbedded, Indirect otherwise.
func NewRef(c Cell) Ref {
	if IsEmbedded(c) {
		return EmbedRef(c)
	}
	return IndirectRef(Hash(c))
}

// IsIndirect reports whether this ref carries only a hash.
func (r Ref) IsIndirect() bool { return r.value == nil }

// IsEmbedded reports whether this ref carries the cell itself.
func (r Ref) IsEmbedded() bool { return r.value != nil }

// Value returns the embedded cell, or nil if this ref is indirect.
func (r Ref) Value() Cell { return r.value }

// Hash returns the hash of the referenced cell: the hash the ref already
// holds if it has one, otherwise one computed from the embedded value on
// each call (the computed hash is not cached).
func (r Ref) Hash() hash.Hash {
	if r.hashOK {
		return r.hash
	}
	if r.value == nil {
		return hash.Hash{}
	}
	return Hash(r.value)
}

// Status returns the ref's current persistence status.
func (r Ref) Status() Status { return r.status }

// WithStatus returns a copy of r advanced to status s. It is the caller's
// responsibility to only move status forward in the lattice.
func (r Ref) WithStatus(s Status) Ref {
	r.status = s
	return r
}

// Equal reports whether two refs denote the same cell, which holds
// regardless of embedded/indirect representation since it compares hashes.
func (r Ref) Equal(o Ref) bool {
	return r.Hash().Equals(o.Hash())
}

func hashFromBytes(b []byte) (hash.Hash, bool) {
	return hash.FromBytes(b)
}
