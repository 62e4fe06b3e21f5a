package imap

import "github.com/FAU-CDI/nightcap/internal/triplestore/impl"

// MemoryMap holds the forward map in memory.
// It implements Map.
type MemoryMap struct{}

var (
	_ Map = MemoryMap{}
)

func (MemoryMap) Forward() (HashMap[impl.Key, impl.ID], error) {
	return MakeMemory[impl.Key, impl.ID](0), nil
}
