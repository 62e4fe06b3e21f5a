package igraph

import (
	"iter"
	"sync/atomic"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
)

// list is a copy-on-write list of statements.
//
// A list is only modified by a single goroutine at a time.
// Readers never lock; they load the published slice and iterate over it.
//
// Appends may write into the backing array beyond the published length, which no reader can observe.
// Removals always publish a fresh backing array.
type list struct {
	head atomic.Pointer[[]*Statement]
}

// load returns the currently published statements.
// The returned slice must not be modified.
func (l *list) load() []*Statement {
	head := l.head.Load()
	if head == nil {
		return nil
	}
	return *head
}

// Len returns the number of statements in this list.
func (l *list) Len() int {
	return len(l.load())
}

// add appends a statement to this list.
func (l *list) add(statement *Statement) {
	next := append(l.load(), statement)
	l.head.Store(&next)
}

// removeAll removes all statements in set from this list.
// It returns the number of statements removed.
func (l *list) removeAll(set map[*Statement]struct{}) (removed int) {
	current := l.load()

	next := make([]*Statement, 0, len(current))
	for _, statement := range current {
		if _, ok := set[statement]; ok {
			removed++
			continue
		}
		next = append(next, statement)
	}

	if removed == 0 {
		return 0
	}
	l.head.Store(&next)
	return removed
}

// reset empties this list.
func (l *list) reset() {
	l.head.Store(nil)
}

// visible lazily yields the statements in this list visible at snapshot n.
func (l *list) visible(n impl.Snapshot) iter.Seq[*Statement] {
	return func(yield func(*Statement) bool) {
		for _, statement := range l.load() {
			if !statement.VisibleAt(n) {
				continue
			}
			if !yield(statement) {
				return
			}
		}
	}
}
