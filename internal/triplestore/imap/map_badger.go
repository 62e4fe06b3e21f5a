package imap

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/dgraph-io/badger/v4"
)

// cspell:words badger dgraph

// BadgerMap represents an engine that stores the dictionary in a badger database.
// Any dictionary previously stored at Path is discarded.
type BadgerMap struct {
	Path     string
	InMemory bool // keep the database in memory, Path is ignored
}

var (
	_ Map = BadgerMap{}
)

func (be BadgerMap) Forward() (HashMap[impl.Key, impl.ID], error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	if !be.InMemory {
		path := filepath.Join(be.Path, "forward.badger")
		if err := wipe(path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path).WithSyncWrites(false)
	}

	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to open badger dictionary: %w", err)
	}
	return &badgerIDs{db: db, inMemory: be.InMemory}, nil
}

// badgerIDs maps content keys to ids in a badger database.
type badgerIDs struct {
	db       *badger.DB
	inMemory bool
}

func (bi *badgerIDs) Set(key impl.Key, id impl.ID) error {
	err := bi.db.Update(func(txn *badger.Txn) error {
		return txn.Set(impl.KeyAsByte(key), impl.EncodeIDs(id))
	})
	if err != nil {
		return fmt.Errorf("failed to store id of %q: %w", key, err)
	}
	return nil
}

func (bi *badgerIDs) Get(key impl.Key) (id impl.ID, ok bool, err error) {
	err = bi.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(impl.KeyAsByte(key))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return impl.UnmarshalID(&id, value)
		})
	})
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return id, false, nil
	case err != nil:
		return id, false, fmt.Errorf("failed to read id of %q: %w", key, err)
	}
	return id, true, nil
}

func (bi *badgerIDs) Delete(key impl.Key) error {
	err := bi.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(impl.KeyAsByte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete id of %q: %w", key, err)
	}
	return nil
}

// Count walks the keys of the database without fetching values.
func (bi *badgerIDs) Count() (count uint64, err error) {
	err = bi.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count dictionary: %w", err)
	}
	return count, nil
}

// Compact runs garbage collection on the value log of the database.
func (bi *badgerIDs) Compact() error {
	if bi.inMemory {
		return nil
	}

	err := bi.db.RunValueLogGC(0.5)
	if err == nil || errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return fmt.Errorf("failed to compact dictionary: %w", err)
}

func (bi *badgerIDs) Close() error {
	if err := bi.db.Close(); err != nil {
		return fmt.Errorf("failed to close dictionary: %w", err)
	}
	return nil
}
