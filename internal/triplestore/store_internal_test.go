package triplestore

import (
	"context"
	"testing"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Failure(t *testing.T) {
	store, err := Open(Options{})
	require.NoError(t, err)
	defer store.Close()

	txn, err := store.Begin(context.Background())
	require.NoError(t, err)

	_, err = txn.Add(term.Must(term.NewIRI("urn:a")), term.Must(term.NewIRI("urn:b")), term.NewLiteral("c"), term.Term{})
	require.NoError(t, err)

	// publish behind the writer's back, so that its commit is out of order
	require.NoError(t, store.snapshots.Publish(txn.Snapshot()))

	_, err = txn.Commit()
	assert.ErrorIs(t, err, impl.ErrInvariantViolation)
	assert.ErrorIs(t, store.Err(), impl.ErrInvariantViolation)

	// every further operation is rejected
	_, err = store.Begin(context.Background())
	assert.ErrorIs(t, err, ErrFailed)
	assert.ErrorIs(t, err, impl.ErrInvariantViolation)

	_, err = store.OpenRead()
	assert.ErrorIs(t, err, ErrFailed)

	_, err = store.GC(context.Background())
	assert.ErrorIs(t, err, ErrFailed)
}
