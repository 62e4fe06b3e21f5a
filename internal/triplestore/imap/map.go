package imap

import (
	"errors"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
)

// cspell:words imap

// Map represents the backend of an IMap and creates the appropriate key-value store.
//
// Only the forward direction (content key to id) is delegated to the engine.
// The reverse direction holds live objects and is always kept in memory.
type Map interface {
	Forward() (HashMap[impl.Key, impl.ID], error)
}

// HashMap is something that stores key-value pairs.
// Implementations are safe for concurrent use by multiple goroutines.
type HashMap[Key comparable, Value any] interface {
	// Set sets the given key to the given value
	Set(key Key, value Value) error

	// Get retrieves the value for Key from the given storage.
	// The second value indicates if the value was found.
	Get(key Key) (Value, bool, error)

	// Delete deletes the given key from this storage
	Delete(key Key) error

	// Count counts the number of elements in this store
	Count() (uint64, error)

	// Compact informs the store to perform any optimizations or compaction of internal data structures.
	Compact() error

	// Close closes this store
	Close() error
}

// ErrClosed is returned by every operation on a closed map.
var ErrClosed = errors.New("map is closed")

// closed is a HashMap that has been closed.
type closed[Key comparable, Value any] struct{}

func (closed[Key, Value]) Set(Key, Value) error { return ErrClosed }
func (closed[Key, Value]) Get(Key) (v Value, ok bool, err error) {
	return v, false, ErrClosed
}
func (closed[Key, Value]) Delete(Key) error        { return ErrClosed }
func (closed[Key, Value]) Count() (uint64, error) { return 0, ErrClosed }
func (closed[Key, Value]) Compact() error          { return ErrClosed }
func (closed[Key, Value]) Close() error            { return nil }
