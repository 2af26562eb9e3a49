package store

import (
	"github.com/dgraph-io/badger"

	"github.com/mosaicnetworks/cascade/data"
	"github.com/mosaicnetworks/cascade/hash"
)

var _ data.Store = (*DiskStore)(nil)

// DiskStore is a data.Store backed by badger, the durable half of spec §6's
// "store" directory. Layout and transaction usage follow the teacher's
// BadgerStore (hashgraph/badger_store.go): SyncWrites disabled for
// throughput, one key per stored cell, key is the raw 32-byte hash.
type DiskStore struct {
	db *badger.DB
}

// OpenDiskStore opens (creating if necessary) a badger database at path.
func OpenDiskStore(path string) (*DiskStore, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &DiskStore{db: db}, nil
}

// Close releases the underlying badger handle.
func (s *DiskStore) Close() error {
	return s.db.Close()
}

func (s *DiskStore) Put(h hash.Hash, encoded []byte) error {
	if has, err := s.Has(h); err != nil {
		return err
	} else if has {
		return nil
	}
	tx := s.db.NewTransaction(true)
	defer tx.Discard()
	if err := tx.Set(h.Bytes(), encoded); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *DiskStore) Get(h hash.Hash) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(h.Bytes())
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = make([]byte, len(val))
			copy(out, val)
			return nil
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (s *DiskStore) Has(h hash.Hash) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(h.Bytes())
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	return found, err
}
