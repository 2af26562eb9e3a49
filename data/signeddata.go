package data

import "crypto/ed25519"

// SignatureSize is the length in bytes of an Ed25519 signature.
const SignatureSize = ed25519.SignatureSize

// SignedData pairs a cell with an Ed25519 signature over the hash of its
// canonical encoding and the public key that produced it, per spec §4.4. It is the
// wrapper every Order travels in once it leaves the peer that produced it —
// a Belief's orders map holds SignedData[Order] values, never bare Orders.
type SignedData struct {
	signer    AccountKey
	signature [SignatureSize]byte
	value     Ref
}

// Sign produces a SignedData wrapping payload, signed by priv. priv must be
// the Ed25519 private key corresponding to signer.
//
// The payload always travels embedded, never indirect: a SignedData is how
// an Order crosses the wire inside a Belief, and nothing backs an indirect
// ref with stored bytes along that path (Persist is a separate, explicit
// step for the disk store, not something push/pull performs). Embedding
// unconditionally matches every other record constructor in this package
// (NewBlock, NewOrder, NewBelief, NewState all use EmbedRef) and keeps
// Order.Blocks/Block.Transactions safe to call on a signed payload.
func Sign(priv ed25519.PrivateKey, signer AccountKey, payload Cell) *SignedData {
	ref := EmbedRef(payload)
	sig := ed25519.Sign(priv, Hash(payload).Bytes())
	var sigArr [SignatureSize]byte
	copy(sigArr[:], sig)
	return &SignedData{signer: signer, signature: sigArr, value: ref}
}

// Signer returns the public key that allegedly produced this signature.
func (s *SignedData) Signer() AccountKey { return s.signer }

// Value returns the signed payload's ref.
func (s *SignedData) Value() Ref { return s.value }

// Verify reports whether the signature is valid for the wrapped payload
// under the claimed signer key. It does not resolve an indirect payload ref
// through a store; callers needing that should Resolve first.
func (s *SignedData) Verify() bool {
	return ed25519.Verify(ed25519.PublicKey(s.signer[:]), s.value.Hash().Bytes(), s.signature[:])
}

func (s *SignedData) Tag() byte { return TagSignedData }

func (s *SignedData) WriteBody(w *Writer) {
	w.WriteRaw(s.signer[:])
	w.WriteRaw(s.signature[:])
	w.WriteRef(s.value)
}

func (s *SignedData) RefCount() int    { return 1 }
func (s *SignedData) GetRef(i int) Ref { return s.value }

func (s *SignedData) UpdateRefs(f func(Ref) Ref) Cell {
	return &SignedData{signer: s.signer, signature: s.signature, value: f(s.value)}
}

func (s *SignedData) Validate() error {
	if !s.Verify() {
		return badFormat("signed data: signature does not verify")
	}
	return nil
}

func decodeSignedData(r *Reader) (Cell, error) {
	signerB, err := r.ReadRaw(32)
	if err != nil {
		return nil, err
	}
	sigB, err := r.ReadRaw(SignatureSize)
	if err != nil {
		return nil, err
	}
	val, err := r.ReadRef()
	if err != nil {
		return nil, err
	}
	var signer AccountKey
	copy(signer[:], signerB)
	var sig [SignatureSize]byte
	copy(sig[:], sigB)
	return &SignedData{signer: signer, signature: sig, value: val}, nil
}
