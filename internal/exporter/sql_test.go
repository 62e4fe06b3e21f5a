package exporter_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/FAU-CDI/nightcap/internal/exporter"
	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/FAU-CDI/nightcap/pkg/protocol"
	"github.com/FAU-CDI/nightcap/pkg/term"
	"github.com/huandu/go-sqlbuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/glebarez/go-sqlite"
)

func iri(value string) term.Term {
	return term.Must(term.NewIRI(value))
}

func TestSQL_Export(t *testing.T) {
	store, err := triplestore.Open(triplestore.Options{})
	require.NoError(t, err)
	defer store.Close()

	exA, exB, exG := iri("http://example.org/a"), iri("http://example.org/b"), iri("http://example.org/g")
	inner := term.Must(term.NewTriple(exA, exB, term.NewLiteral("c")))

	// five statements, so that multiple chunks are needed
	_, err = store.Update(context.Background(), func(txn *triplestore.WriteTxn) error {
		for i := range 4 {
			if _, err := txn.Add(exA, exB, term.NewInteger(int64(i)), term.Term{}); err != nil {
				return err
			}
		}
		_, err := txn.Add(exA, exB, inner, exG)
		return err
	})
	require.NoError(t, err)

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "export.db"))
	require.NoError(t, err)
	defer db.Close()

	export := &exporter.SQL{DB: db, Flavor: sqlbuilder.SQLite, BatchSize: 2}

	// export twice, the table is replaced
	for range 2 {
		require.NoError(t, store.View(func(txn *triplestore.ReadTxn) error {
			count, err := export.Export(txn, nil)
			assert.Equal(t, 5, count)
			return err
		}))
	}

	var total int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+exporter.DefaultTable).Scan(&total))
	assert.Equal(t, 5, total)

	var object string
	var since int64
	require.NoError(t, db.QueryRow(
		"SELECT "+exporter.ObjectColumn+", "+exporter.SinceColumn+" FROM "+exporter.DefaultTable+" WHERE "+exporter.GraphColumn+" = ?",
		protocol.EncodeValue(exG),
	).Scan(&object, &since))
	assert.Equal(t, protocol.EncodeValue(inner), object)
	assert.Equal(t, int64(1), since)

	decoded, err := protocol.DecodeValue(object, nil)
	require.NoError(t, err)
	assert.True(t, inner.Equal(decoded))
}

func TestSQL_InsufficientQueryVars(t *testing.T) {
	store, err := triplestore.Open(triplestore.Options{})
	require.NoError(t, err)
	defer store.Close()

	export := &exporter.SQL{MaxQueryVar: 2}
	require.NoError(t, store.View(func(txn *triplestore.ReadTxn) error {
		_, err := export.Export(txn, nil)
		assert.Error(t, err)
		return nil
	}))
}
