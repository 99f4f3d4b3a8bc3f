// ABOUTME: BadgerDB-backed blob slots
// ABOUTME: Embedded key/value directory store, no server required
package db

import (
	"errors"
	"os"

	"github.com/dgraph-io/badger/v3"
)

type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens a badger directory at dir. Badger's own logging is
// suppressed.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(dir).WithLogger(nil)
	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: bdb}, nil
}

func (b *BadgerStore) Get(key string) ([]byte, error) {
	var result []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		result, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return result, err
}

func (b *BadgerStore) Put(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}
