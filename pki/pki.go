// Package pki wraps the Ed25519 keypairs that identify peers and sign
// Orders, adapting the teacher's PEM-file key persistence (crypto/pem_key.go)
// from ECDSA/P256 to the Ed25519 keys the cell system's SignedData requires.
package pki

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/mosaicnetworks/cascade/data"
)

// KeyPair is a peer's identity: an Ed25519 key and the AccountKey cell
// (the raw 32-byte public key) derived from it.
type KeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// Generate creates a fresh random KeyPair.
func Generate() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &KeyPair{Public: pub, Private: priv}, nil
}

// AccountKey returns the AccountKey cell for this key pair's public key.
// Ed25519 public keys are already 32 bytes, the same width AccountKey uses,
// so this is a direct copy, not a derived hash.
func (k *KeyPair) AccountKey() data.AccountKey {
	var ak data.AccountKey
	copy(ak[:], k.Public)
	return ak
}

// Sign wraps payload in a data.SignedData signed by this key pair.
func (k *KeyPair) Sign(payload data.Cell) *data.SignedData {
	return data.Sign(k.Private, k.AccountKey(), payload)
}

// FromPrivate rebuilds a KeyPair from a raw Ed25519 private key, the shape
// PemKey.ReadKey returns.
func FromPrivate(priv ed25519.PrivateKey) *KeyPair {
	pub := priv.Public().(ed25519.PublicKey)
	return &KeyPair{Public: pub, Private: priv}
}
