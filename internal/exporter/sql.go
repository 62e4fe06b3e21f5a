// Package exporter writes the statements of a snapshot into external databases.
package exporter

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/FAU-CDI/nightcap/pkg/protocol"
	"github.com/huandu/go-sqlbuilder"
)

// cspell:words sqlbuilder

// Columns of the statements table.
const (
	SubjectColumn   = "subject"
	PredicateColumn = "predicate"
	ObjectColumn    = "object"
	GraphColumn     = "graph"
	SinceColumn     = "since"
)

// DefaultTable is the default name of the statements table.
const DefaultTable = "statements"

var columns = []string{SubjectColumn, PredicateColumn, ObjectColumn, GraphColumn, SinceColumn}

// SQL exports statements into a single table of an sql database.
// Terms are stored using [protocol.EncodeValue]; the default graph is stored as the empty string.
type SQL struct {
	DB     *sql.DB
	Flavor sqlbuilder.Flavor // flavor of generated queries; the zero value uses sqlbuilder.DefaultFlavor

	Table       string // name of the table; defaults to DefaultTable
	BatchSize   int    // maximum number of rows per insert
	MaxQueryVar int    // maximum number of query variables per insert (overrides BatchSize)
}

var errInsufficientQueryVars = errors.New("insufficient query variables")

func (s *SQL) table() string {
	if s.Table == "" {
		return DefaultTable
	}
	return s.Table
}

func (s *SQL) flavor() sqlbuilder.Flavor {
	if s.Flavor == 0 {
		return sqlbuilder.DefaultFlavor
	}
	return s.Flavor
}

// chunkSize returns the number of rows to insert at once.
func (s *SQL) chunkSize() (int, error) {
	chunkSize := s.BatchSize
	if s.MaxQueryVar > 0 {
		limit := s.MaxQueryVar / len(columns)
		if limit == 0 {
			return 0, errInsufficientQueryVars
		}
		if chunkSize <= 0 || limit < chunkSize {
			chunkSize = limit
		}
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	return chunkSize, nil
}

// Export replaces the table with all statements visible to txn.
// It returns the number of exported statements.
func (s *SQL) Export(txn *triplestore.ReadTxn, st *stats.Stats) (count int, err error) {
	chunkSize, err := s.chunkSize()
	if err != nil {
		return 0, err
	}

	if err := s.createTable(); err != nil {
		return 0, fmt.Errorf("failed to create table: %w", err)
	}

	total, err := txn.Count(igraph.Pattern{})
	if err != nil {
		return 0, err
	}

	statements, err := txn.Match(igraph.Pattern{})
	if err != nil {
		return 0, err
	}

	values := make([][]any, 0, chunkSize)
	for statement := range statements {
		subject, predicate, object, context := statement.Quad()

		var graph string
		if !context.IsZero() {
			graph = protocol.EncodeValue(context)
		}

		values = append(values, []any{
			protocol.EncodeValue(subject),
			protocol.EncodeValue(predicate),
			protocol.EncodeValue(object),
			graph,
			int64(statement.Since()),
		})
		if len(values) < chunkSize {
			continue
		}

		if err := s.insert(values); err != nil {
			return count, err
		}
		count += len(values)
		values = values[:0]

		st.SetCT(count, total)
	}

	if err := s.insert(values); err != nil {
		return count, err
	}
	count += len(values)
	st.SetCT(count, total)

	return count, nil
}

// createTable drops and re-creates the statements table
func (s *SQL) createTable() error {
	if _, err := s.DB.Exec("DROP TABLE IF EXISTS " + s.table()); err != nil {
		return err
	}

	table := sqlbuilder.CreateTable(s.table()).IfNotExists()
	table.Define(SubjectColumn, "TEXT", "NOT NULL")
	table.Define(PredicateColumn, "TEXT", "NOT NULL")
	table.Define(ObjectColumn, "TEXT", "NOT NULL")
	table.Define(GraphColumn, "TEXT", "NOT NULL")
	table.Define(SinceColumn, "BIGINT", "NOT NULL")

	query, args := table.BuildWithFlavor(s.flavor())
	_, err := s.DB.Exec(query, args...)
	return err
}

// insert inserts the given rows using a single query
func (s *SQL) insert(values [][]any) error {
	// nothing to insert!
	if len(values) == 0 {
		return nil
	}

	insert := sqlbuilder.InsertInto(s.table())
	insert.Cols(columns...)
	for _, v := range values {
		insert.Values(v...)
	}

	query, args := insert.BuildWithFlavor(s.flavor())
	if _, err := s.DB.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}
	return nil
}
