package imap

import "sync"

// Memory is an in-memory HashMap.
// Every operation holds a short lock, so Memory may be used concurrently.
type Memory[Key comparable, Value any] struct {
	l  sync.RWMutex
	mp map[Key]Value
}

var (
	_ HashMap[string, int] = (*Memory[string, int])(nil)
)

// MakeMemory makes a new memory instance with room for size elements.
func MakeMemory[Key comparable, Value any](size int) *Memory[Key, Value] {
	return &Memory[Key, Value]{
		mp: make(map[Key]Value, size),
	}
}

// Compact is a no-op.
func (memory *Memory[Key, Value]) Compact() error {
	return nil
}

func (memory *Memory[Key, Value]) Set(key Key, value Value) error {
	memory.l.Lock()
	defer memory.l.Unlock()

	if memory.mp == nil {
		return ErrClosed
	}

	memory.mp[key] = value
	return nil
}

// Get returns the given value if it exists.
// A closed Memory holds no values.
func (memory *Memory[Key, Value]) Get(key Key) (Value, bool, error) {
	memory.l.RLock()
	defer memory.l.RUnlock()

	value, ok := memory.mp[key]
	return value, ok, nil
}

// Delete deletes the given key from this storage.
func (memory *Memory[Key, Value]) Delete(key Key) error {
	memory.l.Lock()
	defer memory.l.Unlock()

	delete(memory.mp, key)
	return nil
}

// Close closes this Memory, deleting all values.
func (memory *Memory[Key, Value]) Close() error {
	memory.l.Lock()
	defer memory.l.Unlock()

	memory.mp = nil
	return nil
}

func (memory *Memory[Key, Value]) Count() (uint64, error) {
	memory.l.RLock()
	defer memory.l.RUnlock()

	return uint64(len(memory.mp)), nil
}
