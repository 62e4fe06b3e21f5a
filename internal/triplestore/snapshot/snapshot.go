// Package snapshot keeps track of published snapshots and the readers holding on to them.
package snapshot

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
)

// Manager hands out snapshots to readers.
//
// The zero Manager is ready to use; its current snapshot is 0.
type Manager struct {
	current atomic.Uint64

	// l is held by readers registering and by the collector choosing the oldest snapshot.
	// The writer only ever publishes through current.
	l       sync.Mutex
	readers map[impl.Snapshot]int
}

// Current returns the latest published snapshot.
func (manager *Manager) Current() impl.Snapshot {
	return impl.Snapshot(manager.current.Load())
}

// Next returns the snapshot the next commit will publish.
func (manager *Manager) Next() impl.Snapshot {
	return manager.Current() + 1
}

// Publish publishes snapshot s.
// s must directly follow the current snapshot.
func (manager *Manager) Publish(s impl.Snapshot) error {
	current := manager.Current()
	if s != current+1 || !manager.current.CompareAndSwap(uint64(current), uint64(s)) {
		return fmt.Errorf("%w: cannot publish %s after %s", impl.ErrInvariantViolation, s, current)
	}
	return nil
}

// Open registers a new reader of the latest published snapshot and returns it.
// Every call to Open must be followed by exactly one call to [Manager.Close].
func (manager *Manager) Open() impl.Snapshot {
	manager.l.Lock()
	defer manager.l.Unlock()

	if manager.readers == nil {
		manager.readers = make(map[impl.Snapshot]int)
	}

	s := manager.Current()
	manager.readers[s]++
	return s
}

// Close unregisters a reader of snapshot s.
func (manager *Manager) Close(s impl.Snapshot) error {
	manager.l.Lock()
	defer manager.l.Unlock()

	count, ok := manager.readers[s]
	if !ok {
		return fmt.Errorf("%w: %s is not open", impl.ErrConcurrencyViolation, s)
	}

	if count == 1 {
		delete(manager.readers, s)
	} else {
		manager.readers[s] = count - 1
	}
	return nil
}

// Oldest returns the oldest snapshot held by any reader, or the current snapshot if there are no readers.
// No reader opened after Oldest returns will observe an older snapshot.
func (manager *Manager) Oldest() impl.Snapshot {
	manager.l.Lock()
	defer manager.l.Unlock()

	oldest := manager.Current()
	for s := range manager.readers {
		oldest = min(oldest, s)
	}
	return oldest
}

// Readers returns the number of registered readers.
func (manager *Manager) Readers() (count int) {
	manager.l.Lock()
	defer manager.l.Unlock()

	for _, n := range manager.readers {
		count += n
	}
	return count
}
