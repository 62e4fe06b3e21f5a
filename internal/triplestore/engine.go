package triplestore

import (
	"fmt"

	"github.com/FAU-CDI/nightcap/internal/triplestore/imap"
)

// Engine names accepted by NewEngine.
const (
	EngineMemory  = "memory"
	EngineLevelDB = "leveldb"
	EngineBadger  = "badger"
)

// NewEngine returns the dictionary engine with the given name.
// Disk-based engines store their data below path; badger keeps its data in memory when path is empty.
func NewEngine(name, path string) (imap.Map, error) {
	switch name {
	case "", EngineMemory:
		return imap.MemoryMap{}, nil
	case EngineLevelDB:
		if path == "" {
			return nil, fmt.Errorf("engine %q requires a path", name)
		}
		return imap.DiskMap{Path: path}, nil
	case EngineBadger:
		return imap.BadgerMap{Path: path, InMemory: path == ""}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", name)
	}
}
