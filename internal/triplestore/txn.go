package triplestore

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/pkg/term"
)

// WriteTxn is a write transaction.
//
// Changes made by a WriteTxn are visible to itself immediately,
// and to readers opened after a successful [WriteTxn.Commit].
// A WriteTxn must only be used by a single goroutine.
type WriteTxn struct {
	store *Store
	w     impl.Snapshot
	done  atomic.Bool
}

// Snapshot returns the snapshot this transaction will publish.
func (txn *WriteTxn) Snapshot() impl.Snapshot {
	return txn.w
}

func (txn *WriteTxn) check() error {
	if txn.done.Load() {
		return errWriteFinished
	}
	return txn.store.check()
}

var errWriteFinished = fmt.Errorf("%w: write transaction already finished", impl.ErrConcurrencyViolation)

// finish marks this transaction as finished.
// The caller must call release to give up the write turn.
func (txn *WriteTxn) finish() (release func(), err error) {
	if txn.done.Swap(true) {
		return nil, errWriteFinished
	}
	return func() { txn.store.turn.Release(1) }, nil
}

// Add adds a statement.
// A missing context adds the statement to the default graph.
//
// ok is false when an identical statement already exists.
func (txn *WriteTxn) Add(subject, predicate, object, context term.Term) (ok bool, err error) {
	if err := txn.check(); err != nil {
		return false, err
	}
	_, ok, err = txn.store.index.Add(subject, predicate, object, context, txn.w)
	return ok, txn.store.fail(err)
}

// Remove removes all statements matching pattern and returns how many were removed.
func (txn *WriteTxn) Remove(pattern igraph.Pattern) (int, error) {
	if err := txn.check(); err != nil {
		return 0, err
	}
	count, err := txn.store.index.Retract(pattern, txn.w)
	return count, txn.store.fail(err)
}

// Match returns the statements matching pattern, including the changes made by this transaction.
func (txn *WriteTxn) Match(pattern igraph.Pattern) (iter.Seq[*igraph.Statement], error) {
	if err := txn.check(); err != nil {
		return nil, err
	}
	return txn.store.index.Match(pattern, txn.w)
}

// Count counts the statements matching pattern, including the changes made by this transaction.
func (txn *WriteTxn) Count(pattern igraph.Pattern) (int, error) {
	if err := txn.check(); err != nil {
		return 0, err
	}
	return txn.store.index.Count(pattern, txn.w)
}

// Commit publishes the changes of this transaction as a new snapshot, and ends the transaction.
// Every commit publishes a new snapshot, even when nothing was changed.
func (txn *WriteTxn) Commit() (impl.Snapshot, error) {
	release, err := txn.finish()
	if err != nil {
		return 0, err
	}
	defer release()

	if err := txn.store.check(); err != nil {
		return 0, err
	}

	added, retracted := txn.store.index.Commit()
	if err := txn.store.snapshots.Publish(txn.w); err != nil {
		return 0, txn.store.fail(fmt.Errorf("failed to commit: %w", err))
	}

	txn.store.metrics.ObserveCommit(added, retracted)
	txn.store.observe()
	txn.store.stats.LogDebug("commit", "snapshot", txn.w, "added", added, "retracted", retracted)
	return txn.w, nil
}

// Rollback discards all changes made by this transaction, and ends the transaction.
func (txn *WriteTxn) Rollback() error {
	release, err := txn.finish()
	if err != nil {
		return err
	}
	defer release()

	if err := txn.store.check(); err != nil {
		return err
	}

	added, retracted, err := txn.store.index.Rollback()
	if err != nil {
		return txn.store.fail(fmt.Errorf("failed to rollback: %w", err))
	}

	txn.store.metrics.ObserveRollback()
	txn.store.observe()
	txn.store.stats.LogDebug("rollback", "snapshot", txn.w, "added", added, "retracted", retracted)
	return nil
}

// ReadTxn is a read transaction.
// It observes a single snapshot for its entire lifetime.
//
// A ReadTxn may be used concurrently.
type ReadTxn struct {
	store  *Store
	n      impl.Snapshot
	closed atomic.Bool
}

// Snapshot returns the snapshot observed by this transaction.
func (txn *ReadTxn) Snapshot() impl.Snapshot {
	return txn.n
}

func (txn *ReadTxn) check() error {
	if txn.closed.Load() {
		return fmt.Errorf("%w: read transaction already closed", impl.ErrConcurrencyViolation)
	}
	return txn.store.check()
}

// Match returns the statements matching pattern.
// The sequence may only be iterated before the transaction is closed.
func (txn *ReadTxn) Match(pattern igraph.Pattern) (iter.Seq[*igraph.Statement], error) {
	if err := txn.check(); err != nil {
		return nil, err
	}
	return txn.store.index.Match(pattern, txn.n)
}

// Count counts the statements matching pattern.
func (txn *ReadTxn) Count(pattern igraph.Pattern) (int, error) {
	if err := txn.check(); err != nil {
		return 0, err
	}
	return txn.store.index.Count(pattern, txn.n)
}

// Contexts returns the distinct contexts used by statements.
func (txn *ReadTxn) Contexts() (iter.Seq[term.Term], error) {
	if err := txn.check(); err != nil {
		return nil, err
	}
	return func(yield func(term.Term) bool) {
		for context := range txn.store.index.Contexts(txn.n) {
			if !yield(context.Term()) {
				return
			}
		}
	}, nil
}

// Close closes this transaction, releasing its snapshot.
// Closing a transaction twice is a concurrency violation.
func (txn *ReadTxn) Close() error {
	if txn.closed.Swap(true) {
		return fmt.Errorf("%w: read transaction already closed", impl.ErrConcurrencyViolation)
	}
	err := txn.store.snapshots.Close(txn.n)
	txn.store.metrics.ObserveReaders(txn.store.snapshots.Readers())
	return err
}
