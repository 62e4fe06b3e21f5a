package rdfio

import (
	"fmt"
	"io"

	"github.com/FAU-CDI/nightcap/pkg/term"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
)

// QuadSource reads statements from an N-Quads file
type QuadSource struct {
	Reader io.ReadSeeker
	reader *nquads.Reader
}

func (qs *QuadSource) Open() error {
	// if we previously had a reader
	// then we need to reset the state
	if qs.reader != nil {
		if err := qs.reader.Close(); err != nil {
			return err
		}
		if err := rewind(qs.Reader); err != nil {
			return err
		}
	}

	qs.reader = nquads.NewReader(qs.Reader, true)
	return nil
}

// Next reads the next token from the QuadSource
func (qs *QuadSource) Next() (tok Token) {
	value, err := qs.reader.ReadQuad()
	if err != nil {
		return Token{Err: err}
	}

	if tok.Subject, err = fromQuad(value.Subject); err != nil {
		return Token{Err: err}
	}
	if tok.Predicate, err = fromQuad(value.Predicate); err != nil {
		return Token{Err: err}
	}
	if tok.Object, err = fromQuad(value.Object); err != nil {
		return Token{Err: err}
	}
	if value.Label != nil {
		if tok.Context, err = fromQuad(value.Label); err != nil {
			return Token{Err: err}
		}
	}
	return tok
}

func (qs *QuadSource) Close() error {
	if qs.reader != nil {
		return qs.reader.Close()
	}
	return nil
}

func fromQuad(value quad.Value) (term.Term, error) {
	switch datum := value.(type) {
	case quad.IRI:
		return term.NewIRI(string(datum))
	case quad.BNode:
		return term.NewBlankNodeWithID(string(datum))
	case quad.String:
		return term.NewLiteral(string(datum)), nil
	case quad.LangString:
		return term.NewLangLiteral(string(datum.Value), datum.Lang)
	case quad.TypedString:
		return term.NewTypedLiteral(string(datum.Value), string(datum.Type))
	case nil:
		return term.Term{}, fmt.Errorf("%w: missing quad value", term.ErrValidation)
	default:
		return term.NewLiteral(fmt.Sprint(value.Native())), nil
	}
}

// toQuad converts a term into a quad value.
// Triple terms cannot be represented and return ok = false.
func toQuad(value term.Term) (q quad.Value, ok bool) {
	switch value.Kind() {
	case term.IRI:
		return quad.IRI(value.Value()), true
	case term.BlankNode:
		return quad.BNode(value.Value()), true
	case term.Literal:
		switch {
		case value.Language() != "":
			return quad.LangString{Value: quad.String(value.Value()), Lang: value.Language()}, true
		case value.Datatype() == term.XSDString:
			return quad.String(value.Value()), true
		default:
			return quad.TypedString{Value: quad.String(value.Value()), Type: quad.IRI(value.Datatype())}, true
		}
	case term.Missing:
		return nil, true
	default:
		return nil, false
	}
}
