package igraph

import (
	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/pkg/term"
)

// Pattern matches statements.
// Missing terms match anything.
type Pattern struct {
	Subject   term.Term
	Predicate term.Term
	Object    term.Term
	Context   term.Term

	// DefaultGraph restricts matches to statements without a context.
	// It may not be combined with a Context.
	DefaultGraph bool
}

// Term returns the term bound to the given role.
func (pattern Pattern) Term(role impl.Role) term.Term {
	switch role {
	case impl.Subject:
		return pattern.Subject
	case impl.Predicate:
		return pattern.Predicate
	case impl.Object:
		return pattern.Object
	case impl.Context:
		return pattern.Context
	default:
		return term.Term{}
	}
}
