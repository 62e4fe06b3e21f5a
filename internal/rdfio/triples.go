package rdfio

import (
	"fmt"
	"io"
	"strings"

	"github.com/FAU-CDI/nightcap/pkg/term"
	"github.com/anglo-korean/rdf"
)

// TripleSource reads statements from a Turtle or N-Triples file.
// All statements are placed in the default graph.
type TripleSource struct {
	Reader io.ReadSeeker
	Format rdf.Format // rdf.Turtle or rdf.NTriples

	opened  bool
	decoder rdf.TripleDecoder
}

func (ts *TripleSource) Open() error {
	if ts.opened {
		if err := rewind(ts.Reader); err != nil {
			return err
		}
	}
	ts.opened = true
	ts.decoder = rdf.NewTripleDecoder(ts.Reader, ts.Format)
	return nil
}

func (ts *TripleSource) Next() (tok Token) {
	triple, err := ts.decoder.Decode()
	if err != nil {
		return Token{Err: err}
	}

	if tok.Subject, err = fromRDF(triple.Subj); err != nil {
		return Token{Err: err}
	}
	if tok.Predicate, err = fromRDF(triple.Pred); err != nil {
		return Token{Err: err}
	}
	if tok.Object, err = fromRDF(triple.Obj); err != nil {
		return Token{Err: err}
	}
	return tok
}

func (ts *TripleSource) Close() error {
	return nil
}

func fromRDF(value rdf.Term) (term.Term, error) {
	switch datum := value.(type) {
	case rdf.IRI:
		return term.NewIRI(datum.String())
	case rdf.Blank:
		return term.NewBlankNodeWithID(strings.TrimPrefix(datum.String(), "_:"))
	case rdf.Literal:
		if lang := datum.Lang(); lang != "" {
			return term.NewLangLiteral(datum.String(), lang)
		}
		return term.NewTypedLiteral(datum.String(), datum.DataType.String())
	default:
		return term.Term{}, fmt.Errorf("%w: unknown rdf term %v", term.ErrValidation, value)
	}
}
