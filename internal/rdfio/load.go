package rdfio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
)

// LoadOptions configure loading statements into a store.
type LoadOptions struct {
	CommitInterval int // number of statements per commit; <= 0 commits once at the end
}

func (opts LoadOptions) shouldCommit(pending int) bool {
	return opts.CommitInterval > 0 && pending >= opts.CommitInterval
}

// LoadFile is like Load, but reads statements from the file at path.
func LoadFile(ctx context.Context, store *triplestore.Store, path string, opts LoadOptions, st *stats.Stats) (count int, last impl.Snapshot, e error) {
	file, err := OpenFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open path: %w", err)
	}
	defer func() {
		if e2 := file.Close(); e2 != nil {
			e = errors.Join(e, fmt.Errorf("failed to close file: %w", e2))
		}
	}()

	return Load(ctx, store, file, opts, st)
}

// Load adds all statements read from source to store.
// Statements are committed in batches; a failure or a cancelled ctx rolls back the current batch only.
//
// Load returns the number of statements read, including duplicates,
// and the snapshot published by its last successful commit.
func Load(ctx context.Context, store *triplestore.Store, source Source, opts LoadOptions, st *stats.Stats) (count int, last impl.Snapshot, err error) {
	if err := source.Open(); err != nil {
		return 0, 0, fmt.Errorf("failed to open source: %w", err)
	}

	txn, err := store.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}

	abort := func(err error) (int, impl.Snapshot, error) {
		return count, last, errors.Join(err, txn.Rollback())
	}

	var pending int
	for {
		if err := ctx.Err(); err != nil {
			return abort(fmt.Errorf("cancelled after %d statement(s): %w", count, err))
		}

		tok := source.Next()
		if errors.Is(tok.Err, io.EOF) {
			break
		}
		if tok.Err != nil {
			return abort(fmt.Errorf("failed to read statement %d: %w", count+1, tok.Err))
		}

		if _, err := txn.Add(tok.Subject, tok.Predicate, tok.Object, tok.Context); err != nil {
			return abort(fmt.Errorf("failed to add statement %d: %w", count+1, err))
		}
		count++
		pending++

		st.SetCT(count, 0)

		if !opts.shouldCommit(pending) {
			continue
		}

		snapshot, err := txn.Commit()
		if err != nil {
			return count, last, fmt.Errorf("failed to commit: %w", err)
		}
		last, pending = snapshot, 0

		if txn, err = store.Begin(ctx); err != nil {
			return count, last, err
		}
	}

	snapshot, err := txn.Commit()
	if err != nil {
		return count, last, fmt.Errorf("failed to commit: %w", err)
	}
	return count, snapshot, nil
}
