package term

// Factory creates terms.
// Decoders use a Factory so that callers can control how decoded terms are made.
type Factory interface {
	IRI(iri string) (Term, error)
	BlankNode(id string) (Term, error)
	Literal(lexical, datatype, language string) (Term, error)
	Triple(subject, predicate, object Term) (Term, error)
}

// DefaultFactory creates terms using the constructors of this package.
var DefaultFactory Factory = factory{}

type factory struct{}

func (factory) IRI(iri string) (Term, error)     { return NewIRI(iri) }
func (factory) BlankNode(id string) (Term, error) { return NewBlankNodeWithID(id) }

func (factory) Literal(lexical, datatype, language string) (Term, error) {
	if language != "" {
		return NewLangLiteral(lexical, language)
	}
	return NewTypedLiteral(lexical, datatype)
}

func (factory) Triple(subject, predicate, object Term) (Term, error) {
	return NewTriple(subject, predicate, object)
}
