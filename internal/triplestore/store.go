// Package triplestore implements a transactional in-memory RDF-star store.
//
// A [Store] admits a single writer at a time, see [Store.Begin], and any number of concurrent readers,
// see [Store.OpenRead]. Readers observe the snapshot that was published when they were opened,
// no matter how many commits happen afterwards.
//
// Retracted statements and unused terms are reclaimed by [Store.GC],
// once no reader can observe them anymore.
package triplestore

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/FAU-CDI/nightcap/internal/triplestore/imap"
	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/internal/triplestore/snapshot"
	"golang.org/x/sync/semaphore"
)

// cspell:words imap igraph

var (
	// ErrClosed is returned when a closed store is used.
	ErrClosed = errors.New("store is closed")

	// ErrFailed is returned by every operation of a store that detected an invariant violation.
	ErrFailed = errors.New("store has failed")
)

// Options configure a store.
type Options struct {
	Engine  imap.Map       // engine for the term dictionary; nil means in memory
	Stats   *stats.Stats   // may be nil
	Metrics *stats.Metrics // may be nil
}

// Store is a transactional RDF-star store.
type Store struct {
	index     igraph.Index
	snapshots snapshot.Manager

	// turn is held by the writer and by the garbage collector.
	// semaphore.Weighted serves waiters in FIFO order.
	turn *semaphore.Weighted

	stats   *stats.Stats
	metrics *stats.Metrics

	closed  atomic.Bool
	failure atomic.Pointer[error]
}

// Open opens a new, empty store.
func Open(opts Options) (*Store, error) {
	engine := opts.Engine
	if engine == nil {
		engine = imap.MemoryMap{}
	}

	store := &Store{
		turn:    semaphore.NewWeighted(1),
		stats:   opts.Stats,
		metrics: opts.Metrics,
	}
	if err := store.index.Reset(engine); err != nil {
		return nil, fmt.Errorf("failed to reset index: %w", err)
	}
	store.observe()
	return store, nil
}

// check returns an error if the store may not be used.
func (store *Store) check() error {
	if store.closed.Load() {
		return ErrClosed
	}
	if failure := store.failure.Load(); failure != nil {
		return fmt.Errorf("%w: %w", ErrFailed, *failure)
	}
	return nil
}

// fail records err as the failure of this store if it is an invariant violation.
// It returns err unchanged.
func (store *Store) fail(err error) error {
	if err == nil || !errors.Is(err, impl.ErrInvariantViolation) {
		return err
	}
	if store.failure.CompareAndSwap(nil, &err) {
		store.stats.LogError("invariant violation, store is no longer usable", err)
	}
	return err
}

// Err returns the failure of this store, if any.
func (store *Store) Err() error {
	if failure := store.failure.Load(); failure != nil {
		return *failure
	}
	return nil
}

// observe updates statistics about the index.
func (store *Store) observe() {
	istats := store.index.Stats()
	store.stats.ObserveIndex(istats)
	store.metrics.ObserveIndex(istats)
	store.metrics.ObserveReaders(store.snapshots.Readers())
}

// Current returns the latest published snapshot.
func (store *Store) Current() impl.Snapshot {
	return store.snapshots.Current()
}

// Stats returns statistics about the underlying index.
func (store *Store) Stats() igraph.Stats {
	return store.index.Stats()
}

// Readers returns the number of open read transactions.
func (store *Store) Readers() int {
	return store.snapshots.Readers()
}

// Begin waits for the write turn and starts a new write transaction.
// Waiting writers are served in order; waiting ends early when ctx is cancelled.
//
// The caller must end the transaction using exactly one of [WriteTxn.Commit] or [WriteTxn.Rollback].
func (store *Store) Begin(ctx context.Context) (*WriteTxn, error) {
	if err := store.check(); err != nil {
		return nil, err
	}
	if err := store.turn.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire write turn: %w", err)
	}
	if err := store.check(); err != nil {
		store.turn.Release(1)
		return nil, err
	}

	return &WriteTxn{
		store: store,
		w:     store.snapshots.Next(),
	}, nil
}

// Update runs f inside a new write transaction.
// When f returns nil, the transaction is committed, otherwise rolled back.
func (store *Store) Update(ctx context.Context, f func(txn *WriteTxn) error) (impl.Snapshot, error) {
	txn, err := store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	if err := f(txn); err != nil {
		return 0, errors.Join(err, txn.Rollback())
	}
	return txn.Commit()
}

// OpenRead opens a new read transaction on the latest published snapshot.
// It never waits for the writer.
//
// The caller must close the transaction.
func (store *Store) OpenRead() (*ReadTxn, error) {
	if err := store.check(); err != nil {
		return nil, err
	}

	txn := &ReadTxn{
		store: store,
		n:     store.snapshots.Open(),
	}
	store.metrics.ObserveReaders(store.snapshots.Readers())
	return txn, nil
}

// View runs f inside a new read transaction.
func (store *Store) View(f func(txn *ReadTxn) error) error {
	txn, err := store.OpenRead()
	if err != nil {
		return err
	}
	return errors.Join(f(txn), txn.Close())
}

// GC reclaims retracted statements no open reader can observe, and terms that are no longer used.
// It takes the write turn, but runs concurrently with readers.
func (store *Store) GC(ctx context.Context) (cstats igraph.CollectStats, err error) {
	if err := store.check(); err != nil {
		return cstats, err
	}
	if err := store.turn.Acquire(ctx, 1); err != nil {
		return cstats, fmt.Errorf("failed to acquire write turn: %w", err)
	}
	defer store.turn.Release(1)

	if err := store.check(); err != nil {
		return cstats, err
	}

	start := time.Now()
	oldest := store.snapshots.Oldest()

	cstats, err = store.index.Collect(oldest)
	if err != nil {
		return cstats, store.fail(fmt.Errorf("failed to collect: %w", err))
	}

	took := time.Since(start)
	store.metrics.ObserveCollect(took, cstats)
	store.observe()

	if cstats.Statements > 0 || cstats.Terms > 0 {
		store.stats.Log("gc", "oldest", oldest, "reclaimed", cstats, "took", took)
	} else {
		store.stats.LogDebug("gc", "oldest", oldest, "took", took)
	}
	return cstats, nil
}

// RunGC calls GC every interval, until ctx is cancelled or the store fails.
// It returns nil once ctx is cancelled.
func (store *Store) RunGC(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		_, err := store.GC(ctx)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, impl.ErrInvariantViolation), errors.Is(err, ErrClosed):
			return err
		default:
			store.stats.LogError("gc", err)
		}
	}
}

// Close closes this store, waiting for the current writer to finish.
// Further operations return [ErrClosed].
func (store *Store) Close() error {
	if err := store.turn.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer store.turn.Release(1)

	if store.closed.Swap(true) {
		return nil
	}
	return store.index.Close()
}
