// Package term implements plain, immutable RDF-star terms.
//
// A [Term] is one of an IRI, a blank node, a literal or a triple term.
// Terms compare structurally, see [Term.Equal] and [Term.Hash].
// The zero Term is the missing term; it is rejected wherever a term is required.
package term

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// cspell:words uuid

// Kind is the kind of a term.
type Kind uint8

const (
	// Missing is the kind of the zero term.
	Missing Kind = iota
	IRI
	BlankNode
	Literal
	TripleTerm
)

func (kind Kind) String() string {
	switch kind {
	case Missing:
		return "missing"
	case IRI:
		return "iri"
	case BlankNode:
		return "blank node"
	case Literal:
		return "literal"
	case TripleTerm:
		return "triple term"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(kind))
	}
}

// Well-known datatypes.
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	LangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

var (
	// ErrValidation is returned when a term is missing a required component.
	ErrValidation = errors.New("invalid term")

	// ErrUnsupportedPosition is returned when a term is used in a position its kind may not occupy.
	ErrUnsupportedPosition = errors.New("unsupported term position")
)

// Term is an immutable RDF-star term.
//
// Terms are values; copying a term is cheap and safe.
// Use [Term.Equal] rather than == to compare terms.
type Term struct {
	kind     Kind
	value    string // iri, blank node id or lexical form
	datatype string
	language string
	triple   *Triple
}

// NewIRI returns a new IRI term.
func NewIRI(iri string) (Term, error) {
	switch {
	case iri == "":
		return Term{}, fmt.Errorf("%w: empty iri", ErrValidation)
	case !utf8.ValidString(iri):
		return Term{}, fmt.Errorf("%w: iri %q is not valid utf-8", ErrValidation, iri)
	}
	return Term{kind: IRI, value: iri}, nil
}

// NewBlankNodeWithID returns a blank node with the given identifier.
// The identifier must be an N-Triples blank node label without the leading "_:".
func NewBlankNodeWithID(id string) (Term, error) {
	if !isBlankLabel(id) {
		return Term{}, fmt.Errorf("%w: invalid blank node id %q", ErrValidation, id)
	}
	return Term{kind: BlankNode, value: id}, nil
}

func isBlankLabel(id string) bool {
	if id == "" || !utf8.ValidString(id) || id[0] == '-' || id[0] == '.' || id[len(id)-1] == '.' {
		return false
	}
	for _, r := range id {
		switch {
		case r == '_', r == '-', r == '.':
		case r < utf8.RuneSelf:
			if !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') && !('0' <= r && r <= '9') {
				return false
			}
		case r == 0xB7, r == 0x203F, r == 0x2040:
		default:
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) {
				return false
			}
		}
	}
	return true
}

// isLanguageTag reports if tag matches [a-zA-Z]+ ('-' [a-zA-Z0-9]+)*.
func isLanguageTag(tag string) bool {
	for i, part := range strings.Split(tag, "-") {
		if part == "" {
			return false
		}
		for _, r := range part {
			alpha := ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
			if !alpha && (i == 0 || r < '0' || r > '9') {
				return false
			}
		}
	}
	return true
}

// NewBlankNode returns a blank node with a fresh random identifier.
func NewBlankNode() Term {
	return Term{kind: BlankNode, value: "b" + uuid.NewString()}
}

// NewLiteral returns a plain string literal.
// Invalid utf-8 sequences in lexical are replaced by U+FFFD.
func NewLiteral(lexical string) Term {
	return Term{kind: Literal, value: strings.ToValidUTF8(lexical, "\uFFFD"), datatype: XSDString}
}

// NewTypedLiteral returns a literal with the given datatype.
// An empty datatype means xsd:string.
func NewTypedLiteral(lexical, datatype string) (Term, error) {
	switch datatype {
	case "":
		datatype = XSDString
	case LangString:
		return Term{}, fmt.Errorf("%w: rdf:langString literal without language", ErrValidation)
	}
	if !utf8.ValidString(lexical) || !utf8.ValidString(datatype) {
		return Term{}, fmt.Errorf("%w: literal %q is not valid utf-8", ErrValidation, lexical)
	}
	return Term{kind: Literal, value: lexical, datatype: datatype}, nil
}

// NewLangLiteral returns a language-tagged string literal.
func NewLangLiteral(lexical, language string) (Term, error) {
	switch {
	case language == "":
		return Term{}, fmt.Errorf("%w: empty language tag", ErrValidation)
	case !isLanguageTag(language):
		return Term{}, fmt.Errorf("%w: invalid language tag %q", ErrValidation, language)
	case !utf8.ValidString(lexical):
		return Term{}, fmt.Errorf("%w: literal %q is not valid utf-8", ErrValidation, lexical)
	}
	return Term{kind: Literal, value: lexical, datatype: LangString, language: language}, nil
}

// NewInteger returns an xsd:integer literal.
func NewInteger(value int64) Term {
	return Term{kind: Literal, value: strconv.FormatInt(value, 10), datatype: XSDInteger}
}

// NewBoolean returns an xsd:boolean literal.
func NewBoolean(value bool) Term {
	return Term{kind: Literal, value: strconv.FormatBool(value), datatype: XSDBoolean}
}

// Must panics when err is not nil and returns t otherwise.
// It is intended for static terms in tests and variable initializers.
func Must(t Term, err error) Term {
	if err != nil {
		panic(err)
	}
	return t
}

// Kind returns the kind of this term.
func (t Term) Kind() Kind { return t.kind }

// IsZero reports if this is the missing term.
func (t Term) IsZero() bool { return t.kind == Missing }

// Value returns the iri, the blank node identifier or the lexical form of a literal.
// It returns the empty string for triple terms.
func (t Term) Value() string { return t.value }

// Datatype returns the datatype iri of a literal.
func (t Term) Datatype() string { return t.datatype }

// Language returns the language tag of a literal, if any.
func (t Term) Language() string { return t.language }

// Triple returns the triple of a triple term.
func (t Term) Triple() (Triple, bool) {
	if t.kind != TripleTerm {
		return Triple{}, false
	}
	return *t.triple, true
}

// IsResource reports if the term may be used as the subject of a statement.
func (t Term) IsResource() bool {
	return t.kind == IRI || t.kind == BlankNode || t.kind == TripleTerm
}

// IsContext reports if the term may be used as the context of a statement.
func (t Term) IsContext() bool {
	return t.kind == IRI || t.kind == BlankNode
}

// Equal reports if two terms are structurally equal.
func (t Term) Equal(other Term) bool {
	if t.kind != other.kind || t.value != other.value || t.datatype != other.datatype || t.language != other.language {
		return false
	}
	if t.kind != TripleTerm {
		return true
	}
	return t.triple.Equal(*other.triple)
}

// String returns a human-readable form of this term.
// Use the protocol package for a parseable encoding.
func (t Term) String() string {
	switch t.kind {
	case IRI:
		return t.value
	case BlankNode:
		return "_:" + t.value
	case Literal:
		switch {
		case t.language != "":
			return strconv.Quote(t.value) + "@" + t.language
		case t.datatype == XSDString:
			return strconv.Quote(t.value)
		default:
			return strconv.Quote(t.value) + "^^<" + t.datatype + ">"
		}
	case TripleTerm:
		return t.triple.String()
	default:
		return "<missing>"
	}
}
