package pki

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const keyFileName = "keypair"

// PemKey persists a single Ed25519 private key to a PEM file on disk, the
// same per-peer-directory layout the teacher used for its ECDSA key
// (crypto/pem_key.go), carried over to the key kind SignedData verification
// requires. The file is written 0600 in place of the real passphrase
// encryption a production deployment would want; see DESIGN.md.
type PemKey struct {
	mu   sync.Mutex
	path string
}

// NewPemKey returns a PemKey rooted at base/keypair.
func NewPemKey(base string) *PemKey {
	return &PemKey{path: filepath.Join(base, keyFileName)}
}

// ReadKey loads the private key, returning (nil, nil) if no key file
// exists yet.
func (k *PemKey) ReadKey() (ed25519.PrivateKey, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	buf, err := os.ReadFile(k.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if len(buf) == 0 {
		return nil, nil
	}

	block, _ := pem.Decode(buf)
	if block == nil {
		return nil, fmt.Errorf("pki: error decoding PEM block from %s", k.path)
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("pki: key file %s does not hold an Ed25519 key", k.path)
	}
	return priv, nil
}

// WriteKey persists priv to the key file, creating or truncating it.
func (k *PemKey) WriteKey(priv ed25519.PrivateKey) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	b, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return err
	}
	block := &pem.Block{Type: "PRIVATE KEY", Bytes: b}
	data := pem.EncodeToMemory(block)
	return os.WriteFile(k.path, data, 0600)
}

// LoadOrGenerate reads the key file at base, generating and persisting a
// fresh key pair the first time a peer directory is used.
func LoadOrGenerate(base string) (*KeyPair, error) {
	pk := NewPemKey(base)
	priv, err := pk.ReadKey()
	if err != nil {
		return nil, err
	}
	if priv != nil {
		return FromPrivate(priv), nil
	}
	kp, err := Generate()
	if err != nil {
		return nil, err
	}
	if err := pk.WriteKey(kp.Private); err != nil {
		return nil, err
	}
	return kp, nil
}
