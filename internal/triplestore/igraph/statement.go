package igraph

import (
	"fmt"
	"sync/atomic"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/pkg/term"
)

// Statement is a statement held by an [Index].
//
// A statement is visible at snapshot n iff since <= n < till.
// since is fixed at creation, till is [impl.Open] until the statement is retracted.
type Statement struct {
	Subject   *Interned
	Predicate *Interned
	Object    *Interned
	Context   *Interned // nil for the default graph

	since impl.Snapshot
	till  atomic.Uint64
}

func newStatement(subject, predicate, object, context *Interned, since impl.Snapshot) *Statement {
	statement := &Statement{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
		Context:   context,
		since:     since,
	}
	statement.till.Store(uint64(impl.Open))
	return statement
}

// Since returns the first snapshot this statement is visible in.
func (statement *Statement) Since() impl.Snapshot {
	return statement.since
}

// Till returns the first snapshot this statement is no longer visible in.
func (statement *Statement) Till() impl.Snapshot {
	return impl.Snapshot(statement.till.Load())
}

// Live reports if this statement has not been retracted.
func (statement *Statement) Live() bool {
	return statement.Till() == impl.Open
}

// VisibleAt reports if this statement is visible at the given snapshot.
func (statement *Statement) VisibleAt(n impl.Snapshot) bool {
	return statement.since <= n && n < statement.Till()
}

// Term returns the term in the given role, or nil.
func (statement *Statement) Term(role impl.Role) *Interned {
	switch role {
	case impl.Subject:
		return statement.Subject
	case impl.Predicate:
		return statement.Predicate
	case impl.Object:
		return statement.Object
	case impl.Context:
		return statement.Context
	default:
		return nil
	}
}

// Quad returns the plain terms of this statement.
// The context is the missing term for statements in the default graph.
func (statement *Statement) Quad() (subject, predicate, object, context term.Term) {
	subject = statement.Subject.Term()
	predicate = statement.Predicate.Term()
	object = statement.Object.Term()
	if statement.Context != nil {
		context = statement.Context.Term()
	}
	return
}

// Triple returns the (subject, predicate, object) triple of this statement.
func (statement *Statement) Triple() term.Triple {
	// positions were validated when the statement was added
	triple, _ := term.MakeTriple(statement.Subject.Term(), statement.Predicate.Term(), statement.Object.Term())
	return triple
}

func (statement *Statement) String() string {
	var context string
	if statement.Context != nil {
		context = " " + statement.Context.String()
	}
	return fmt.Sprintf("%s %s %s%s [%d, %s)", statement.Subject, statement.Predicate, statement.Object, context, statement.since, statement.Till())
}
