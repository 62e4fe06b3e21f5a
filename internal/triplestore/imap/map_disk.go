package imap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// cspell:words leveldb syndtr goleveldb

// DiskMap represents an engine that stores the dictionary in a leveldb database on disk.
// Any dictionary previously stored at Path is discarded.
type DiskMap struct {
	Path string
}

var (
	_ Map = DiskMap{}
)

func (de DiskMap) Forward() (HashMap[impl.Key, impl.ID], error) {
	path := filepath.Join(de.Path, "forward.leveldb")
	if err := wipe(path); err != nil {
		return nil, err
	}

	// the dictionary is discarded on restart
	db, err := leveldb.OpenFile(path, &opt.Options{NoSync: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb dictionary: %w", err)
	}
	return &levelIDs{db: db}, nil
}

// wipe removes path if it exists.
func wipe(path string) error {
	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to cleanup path: %w", err)
	}
	return nil
}

// levelIDs maps content keys to ids in a leveldb database.
type levelIDs struct {
	db *leveldb.DB
}

func (li *levelIDs) Set(key impl.Key, id impl.ID) error {
	if err := li.db.Put(impl.KeyAsByte(key), impl.EncodeIDs(id), nil); err != nil {
		return fmt.Errorf("failed to store id of %q: %w", key, err)
	}
	return nil
}

func (li *levelIDs) Get(key impl.Key) (id impl.ID, ok bool, err error) {
	value, err := li.db.Get(impl.KeyAsByte(key), nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return id, false, nil
	case err != nil:
		return id, false, fmt.Errorf("failed to read id of %q: %w", key, err)
	}
	if err := impl.UnmarshalID(&id, value); err != nil {
		return id, false, fmt.Errorf("corrupted id of %q: %w", key, err)
	}
	return id, true, nil
}

func (li *levelIDs) Delete(key impl.Key) error {
	if err := li.db.Delete(impl.KeyAsByte(key), nil); err != nil {
		return fmt.Errorf("failed to delete id of %q: %w", key, err)
	}
	return nil
}

// Count walks the keys of the database.
func (li *levelIDs) Count() (count uint64, err error) {
	it := li.db.NewIterator(nil, &opt.ReadOptions{DontFillCache: true})
	defer it.Release()

	for it.Next() {
		count++
	}
	if err := it.Error(); err != nil {
		return 0, fmt.Errorf("failed to count dictionary: %w", err)
	}
	return count, nil
}

// Compact compacts the whole key range, dropping the tombstones of reclaimed terms.
func (li *levelIDs) Compact() error {
	if err := li.db.CompactRange(util.Range{}); err != nil {
		return fmt.Errorf("failed to compact dictionary: %w", err)
	}
	return nil
}

func (li *levelIDs) Close() error {
	if err := li.db.Close(); err != nil {
		return fmt.Errorf("failed to close dictionary: %w", err)
	}
	return nil
}
