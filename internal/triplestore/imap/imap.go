// Package imap implements the dictionary of a triplestore.
//
// An [IMap] assigns a fresh [impl.ID] to every distinct content key and holds
// the object created for it.
package imap

import (
	"errors"
	"fmt"
	"sync"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
)

// cspell:words imap

// IMap holds a forward mapping from content keys to ids, and a reverse mapping from ids to values.
//
// The forward mapping is stored in the engine passed to [IMap.Reset].
// The reverse mapping holds live values, and is always kept in memory.
//
// Lookups ([IMap.Get], [IMap.Reverse], [IMap.Count]) may be performed concurrently with each other and with one mutating goroutine.
// Mutating operations ([IMap.AddNew], [IMap.Delete], [IMap.Compact]) must not be called concurrently.
// [IMap.Close] waits for running operations; afterwards every operation fails with [ErrClosed].
//
// The zero map is not ready for use; it should be initialized using a call to [IMap.Reset].
type IMap[Value any] struct {
	l       sync.RWMutex // held for writing only while the storages are swapped
	forward HashMap[impl.Key, impl.ID]
	reverse HashMap[impl.ID, Value]

	id impl.ID // last id handed out
}

// Reset resets this IMap to be empty, closing any previously opened storages.
func (mp *IMap[Value]) Reset(engine Map) error {
	if err := mp.Close(); err != nil {
		return err
	}

	forward, err := engine.Forward()
	if err != nil {
		return fmt.Errorf("failed to open forward map: %w", err)
	}

	mp.l.Lock()
	defer mp.l.Unlock()

	mp.forward = forward
	mp.reverse = MakeMemory[impl.ID, Value](0)
	mp.id.Reset()
	return nil
}

// AddNew returns the value associated with key.
//
// When key does not exist, a new id is allocated, make is called to create the value and both are stored.
// old indicates if the value existed previously.
func (mp *IMap[Value]) AddNew(key impl.Key, make func(id impl.ID) Value) (id impl.ID, value Value, old bool, err error) {
	mp.l.RLock()
	defer mp.l.RUnlock()

	id, old, err = mp.forward.Get(key)
	if err != nil {
		return id, value, false, fmt.Errorf("failed to lookup key: %w", err)
	}
	if old {
		value, _, err = mp.reverse.Get(id)
		return id, value, true, err
	}

	id = mp.id.Inc()
	value = make(id)

	// reverse first, so that concurrent lookups never see a dangling id
	if err := mp.reverse.Set(id, value); err != nil {
		return id, value, false, fmt.Errorf("failed to store value: %w", err)
	}
	if err := mp.forward.Set(key, id); err != nil {
		return id, value, false, errors.Join(
			fmt.Errorf("failed to store key: %w", err),
			mp.reverse.Delete(id),
		)
	}
	return id, value, false, nil
}

// Get returns the value associated with key, if any.
// It never modifies the map.
func (mp *IMap[Value]) Get(key impl.Key) (value Value, ok bool, err error) {
	mp.l.RLock()
	defer mp.l.RUnlock()

	id, ok, err := mp.forward.Get(key)
	if err != nil || !ok {
		return value, false, err
	}
	return mp.reverse.Get(id)
}

// Reverse returns the value associated with the given id.
func (mp *IMap[Value]) Reverse(id impl.ID) (value Value, ok bool) {
	mp.l.RLock()
	defer mp.l.RUnlock()

	value, ok, _ = mp.reverse.Get(id)
	return value, ok
}

// Delete removes key and its id from this map.
// The id is never handed out again.
func (mp *IMap[Value]) Delete(key impl.Key, id impl.ID) error {
	mp.l.RLock()
	defer mp.l.RUnlock()

	return errors.Join(
		mp.forward.Delete(key),
		mp.reverse.Delete(id),
	)
}

// Count returns the number of values in this map.
func (mp *IMap[Value]) Count() (uint64, error) {
	mp.l.RLock()
	defer mp.l.RUnlock()

	return mp.reverse.Count()
}

// Compact indicates to the implementation to perform any optimization of internal data structures.
func (mp *IMap[Value]) Compact() error {
	mp.l.RLock()
	defer mp.l.RUnlock()

	var errs [2]error

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		errs[0] = mp.forward.Compact()
	}()

	go func() {
		defer wg.Done()
		errs[1] = mp.reverse.Compact()
	}()

	wg.Wait()
	return errors.Join(errs[:]...)
}

// Close closes any storages related to this IMap.
//
// Calling close multiple times results in err = nil.
func (mp *IMap[Value]) Close() error {
	mp.l.Lock()
	defer mp.l.Unlock()

	var errs [2]error
	if mp.forward != nil {
		errs[0] = mp.forward.Close()
	}
	if mp.reverse != nil {
		errs[1] = mp.reverse.Close()
	}

	mp.forward = closed[impl.Key, impl.ID]{}
	mp.reverse = closed[impl.ID, Value]{}
	return errors.Join(errs[:]...)
}
