package rdfio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/FAU-CDI/nightcap/pkg/protocol"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// WriteQuads writes all statements visible to txn as N-Quads.
//
// N-Quads cannot represent triple terms.
// Statements containing them are skipped and counted in skipped; use WriteLines to keep them.
func WriteQuads(w io.Writer, txn *triplestore.ReadTxn) (written, skipped int, err error) {
	statements, err := txn.Match(igraph.Pattern{})
	if err != nil {
		return 0, 0, err
	}

	writer := nquads.NewWriter(w)
	for statement := range statements {
		subject, predicate, object, context := statement.Quad()

		var value quad.Quad
		var ok [4]bool
		value.Subject, ok[0] = toQuad(subject)
		value.Predicate, ok[1] = toQuad(predicate)
		value.Object, ok[2] = toQuad(object)
		value.Label, ok[3] = toQuad(context)
		if !(ok[0] && ok[1] && ok[2] && ok[3]) {
			skipped++
			continue
		}

		if err := writer.WriteQuad(value); err != nil {
			return written, skipped, fmt.Errorf("failed to write quad: %w", err)
		}
		written++
	}

	if err := writer.Close(); err != nil {
		return written, skipped, fmt.Errorf("failed to close writer: %w", err)
	}
	return written, skipped, nil
}

// WriteLines writes all statements visible to txn, one per line, in a format read by [LineSource].
func WriteLines(w io.Writer, txn *triplestore.ReadTxn) (written int, err error) {
	statements, err := txn.Match(igraph.Pattern{})
	if err != nil {
		return 0, err
	}

	buffer := bufio.NewWriter(w)
	for statement := range statements {
		if _, err := buffer.WriteString(protocol.EncodeStatement(statement.Quad()) + " .\n"); err != nil {
			return written, err
		}
		written++
	}
	return written, buffer.Flush()
}
