package term

import "fmt"

// Triple is an ordered (subject, predicate, object) triple.
// It is the content of a triple term.
type Triple struct {
	subject, predicate, object Term
}

// NewTriple returns the triple term (subject, predicate, object).
//
// The subject must be an IRI, blank node or triple term and the predicate an IRI.
// Any component that is missing is reported as [ErrValidation].
func NewTriple(subject, predicate, object Term) (Term, error) {
	triple, err := MakeTriple(subject, predicate, object)
	if err != nil {
		return Term{}, err
	}
	return Term{kind: TripleTerm, triple: &triple}, nil
}

// MakeTriple validates and returns a triple.
func MakeTriple(subject, predicate, object Term) (Triple, error) {
	switch {
	case subject.IsZero():
		return Triple{}, fmt.Errorf("%w: triple subject is missing", ErrValidation)
	case predicate.IsZero():
		return Triple{}, fmt.Errorf("%w: triple predicate is missing", ErrValidation)
	case object.IsZero():
		return Triple{}, fmt.Errorf("%w: triple object is missing", ErrValidation)
	case !subject.IsResource():
		return Triple{}, fmt.Errorf("%w: %s as subject", ErrUnsupportedPosition, subject.Kind())
	case predicate.Kind() != IRI:
		return Triple{}, fmt.Errorf("%w: %s as predicate", ErrUnsupportedPosition, predicate.Kind())
	}
	return Triple{subject: subject, predicate: predicate, object: object}, nil
}

// Subject returns the subject of this triple.
func (tr Triple) Subject() Term { return tr.subject }

// Predicate returns the predicate of this triple.
func (tr Triple) Predicate() Term { return tr.predicate }

// Object returns the object of this triple.
func (tr Triple) Object() Term { return tr.object }

// Term returns this triple as a triple term.
func (tr Triple) Term() Term {
	return Term{kind: TripleTerm, triple: &tr}
}

// Equal reports if two triples are structurally equal.
// Objects are compared first, they are the component most likely to differ.
func (tr Triple) Equal(other Triple) bool {
	return tr.object.Equal(other.object) &&
		tr.subject.Equal(other.subject) &&
		tr.predicate.Equal(other.predicate)
}

// Hash returns Combine of the component hashes.
func (tr Triple) Hash() uint64 {
	return Combine(tr.subject.Hash(), tr.predicate.Hash(), tr.object.Hash())
}

func (tr Triple) String() string {
	return "<<(" + tr.subject.String() + " " + tr.predicate.String() + " " + tr.object.String() + ")>>"
}
