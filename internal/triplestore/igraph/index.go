// Package igraph implements the statement index of a triplestore.
//
// An [Index] interns terms, holds statements together with their validity interval,
// and keeps a list of back-references from every term to the statements using it.
package igraph

import (
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/FAU-CDI/nightcap/internal/triplestore/imap"
	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/pkg/term"
)

// cSpell:words igraph imap

// Index holds statements indexed by the terms they contain.
//
// Index distinguishes between a single writer and many readers.
// Writer methods (Intern, Add, Retract, Commit, Rollback, Collect) must not be called concurrently.
// Reader methods (Lookup, Match, Count, Contexts, Stats) may be called at any time,
// and only ever observe published state.
//
// The zero value is not ready to be used; call [Index.Reset] first.
type Index struct {
	terms imap.IMap[*Interned]
	all   list // every linked statement

	journal journal                  // changes of the current write turn
	retired map[*Statement]struct{} // committed retractions awaiting collection
	orphans map[*Interned]struct{}  // terms that may have become reclaimable

	nRetired atomic.Uint64
}

// journal records the changes of a single write turn.
type journal struct {
	added     map[*Statement]struct{}
	retracted map[*Statement]struct{}
	interned  []*Interned
}

func (j *journal) reset() {
	j.added = make(map[*Statement]struct{})
	j.retracted = make(map[*Statement]struct{})
	j.interned = nil
}

// Stats holds statistics about an index.
type Stats struct {
	Statements uint64 // linked statements, including retracted ones not yet collected
	Retired    uint64 // retracted statements awaiting collection
	Terms      uint64 // interned terms
}

func (stats Stats) String() string {
	return fmt.Sprintf("{statements:%d,retired:%d,terms:%d}", stats.Statements, stats.Retired, stats.Terms)
}

// Stats returns statistics about this index.
func (index *Index) Stats() Stats {
	if index == nil {
		return Stats{}
	}
	terms, _ := index.terms.Count()
	return Stats{
		Statements: uint64(index.all.Len()),
		Retired:    index.nRetired.Load(),
		Terms:      terms,
	}
}

// Reset resets this index to be empty, using engine to store the term dictionary.
func (index *Index) Reset(engine imap.Map) error {
	if err := index.Close(); err != nil {
		return fmt.Errorf("failed to close index: %w", err)
	}

	if err := index.terms.Reset(engine); err != nil {
		return fmt.Errorf("failed to reset terms: %w", err)
	}

	index.all.reset()
	index.journal.reset()
	index.retired = make(map[*Statement]struct{})
	index.orphans = make(map[*Interned]struct{})
	index.nRetired.Store(0)
	return nil
}

// Close closes any storages associated with this index.
func (index *Index) Close() error {
	index.all.reset()
	if err := index.terms.Close(); err != nil {
		return fmt.Errorf("failed to close terms: %w", err)
	}
	return nil
}

var errContextAndDefault = errors.New("pattern may not restrict both context and default graph")

// Add adds the statement (subject, predicate, object, context) to the index, visible from snapshot w onwards.
// A missing context places the statement in the default graph.
//
// Adding a statement which is already live returns the existing statement and ok = false.
// Add is all-or-nothing: on error the index is unchanged.
func (index *Index) Add(subject, predicate, object, context term.Term, w impl.Snapshot) (statement *Statement, ok bool, err error) {
	switch {
	case subject.IsZero() || predicate.IsZero() || object.IsZero():
		return nil, false, fmt.Errorf("%w: statement is missing a component", term.ErrValidation)
	case !subject.IsResource():
		return nil, false, fmt.Errorf("%w: %s as subject", term.ErrUnsupportedPosition, subject.Kind())
	case predicate.Kind() != term.IRI:
		return nil, false, fmt.Errorf("%w: %s as predicate", term.ErrUnsupportedPosition, predicate.Kind())
	case !context.IsZero() && !context.IsContext():
		return nil, false, fmt.Errorf("%w: %s as context", term.ErrUnsupportedPosition, context.Kind())
	}

	// intern all the terms, releasing them again on failure
	mark := len(index.journal.interned)
	values := [impl.RoleCount]term.Term{subject, predicate, object, context}
	var terms [impl.RoleCount]*Interned
	for _, role := range impl.Roles {
		value := values[role]
		if value.IsZero() {
			continue
		}
		terms[role], err = index.Intern(value)
		if err != nil {
			fresh := index.journal.interned[mark:]
			index.journal.interned = index.journal.interned[:mark]
			return nil, false, errors.Join(err, index.sweep(fresh))
		}
	}

	if existing := index.find(terms); existing != nil {
		return existing, false, nil
	}

	statement = newStatement(terms[impl.Subject], terms[impl.Predicate], terms[impl.Object], terms[impl.Context], w)
	for _, role := range impl.Roles {
		if terms[role] != nil {
			terms[role].refs[role].add(statement)
		}
	}
	index.all.add(statement)
	index.journal.added[statement] = struct{}{}

	return statement, true, nil
}

// find returns the live statement consisting of the given terms, if any.
func (index *Index) find(terms [impl.RoleCount]*Interned) *Statement {
	// scan the shortest list
	var candidates []*Statement
	for i, role := range impl.Roles {
		if terms[role] == nil {
			continue
		}
		if refs := terms[role].refs[role].load(); i == 0 || len(refs) < len(candidates) {
			candidates = refs
		}
	}

	for _, candidate := range candidates {
		if candidate.Live() &&
			candidate.Subject == terms[impl.Subject] &&
			candidate.Predicate == terms[impl.Predicate] &&
			candidate.Object == terms[impl.Object] &&
			candidate.Context == terms[impl.Context] {
			return candidate
		}
	}
	return nil
}

// resolve resolves the terms bound in pattern.
// ok is false when some bound term is not interned, and the pattern can not match anything.
func (index *Index) resolve(pattern Pattern) (bound [impl.RoleCount]*Interned, ok bool, err error) {
	if pattern.DefaultGraph && !pattern.Context.IsZero() {
		return bound, false, fmt.Errorf("%w: %w", term.ErrValidation, errContextAndDefault)
	}

	for _, role := range impl.Roles {
		value := pattern.Term(role)
		if value.IsZero() {
			continue
		}

		interned, found, err := index.Lookup(value)
		if err != nil {
			return bound, false, err
		}
		if !found {
			return bound, false, nil
		}
		bound[role] = interned
	}
	return bound, true, nil
}

// Match returns the statements matching pattern that are visible at snapshot n.
//
// The returned sequence is lazy; it starts from the shortest back-reference list of the bound terms,
// or from all statements when no term is bound.
func (index *Index) Match(pattern Pattern, n impl.Snapshot) (iter.Seq[*Statement], error) {
	bound, ok, err := index.resolve(pattern)
	if err != nil {
		return nil, err
	}
	if !ok {
		return func(func(*Statement) bool) {}, nil
	}

	return func(yield func(*Statement) bool) {
		source := &index.all
		for _, role := range impl.Roles {
			if bound[role] == nil {
				continue
			}
			if candidate := &bound[role].refs[role]; source == &index.all || candidate.Len() < source.Len() {
				source = candidate
			}
		}

		for statement := range source.visible(n) {
			if pattern.DefaultGraph && statement.Context != nil {
				continue
			}
			if !matches(statement, bound) {
				continue
			}
			if !yield(statement) {
				return
			}
		}
	}, nil
}

func matches(statement *Statement, bound [impl.RoleCount]*Interned) bool {
	for _, role := range impl.Roles {
		if bound[role] != nil && statement.Term(role) != bound[role] {
			return false
		}
	}
	return true
}

// Count returns the number of statements matching pattern at snapshot n.
func (index *Index) Count(pattern Pattern, n impl.Snapshot) (count int, err error) {
	statements, err := index.Match(pattern, n)
	if err != nil {
		return 0, err
	}
	for range statements {
		count++
	}
	return count, nil
}

// Contexts returns the distinct contexts of statements visible at snapshot n.
func (index *Index) Contexts(n impl.Snapshot) iter.Seq[*Interned] {
	return func(yield func(*Interned) bool) {
		seen := make(map[*Interned]struct{})
		for statement := range index.all.visible(n) {
			if statement.Context == nil {
				continue
			}
			if _, ok := seen[statement.Context]; ok {
				continue
			}
			seen[statement.Context] = struct{}{}

			if !yield(statement.Context) {
				return
			}
		}
	}
}

// Retract retracts all live statements matching pattern in the write snapshot w.
// It returns the number of statements retracted.
//
// Statements that were added in the same write turn were never visible, and are removed immediately.
func (index *Index) Retract(pattern Pattern, w impl.Snapshot) (int, error) {
	statements, err := index.Match(pattern, w)
	if err != nil {
		return 0, err
	}

	unlink := make(map[*Statement]struct{})
	count := 0
	for statement := range statements {
		count++

		if statement.since == w {
			unlink[statement] = struct{}{}
			delete(index.journal.added, statement)
			continue
		}

		statement.till.Store(uint64(w))
		index.journal.retracted[statement] = struct{}{}
	}

	if err := index.unlink(unlink); err != nil {
		return count, err
	}
	return count, nil
}

// Commit ends the current write turn.
// Statements retracted in the turn become eligible for collection.
func (index *Index) Commit() (added, retracted int) {
	added = len(index.journal.added)
	retracted = len(index.journal.retracted)

	for statement := range index.journal.retracted {
		index.retired[statement] = struct{}{}
	}
	index.nRetired.Store(uint64(len(index.retired)))

	index.journal.reset()
	return added, retracted
}

// Rollback undoes all changes of the current write turn.
// Added statements are removed, retracted statements are made live again and freshly interned terms are forgotten.
func (index *Index) Rollback() (added, retracted int, err error) {
	added = len(index.journal.added)
	retracted = len(index.journal.retracted)

	for statement := range index.journal.retracted {
		statement.till.Store(uint64(impl.Open))
	}

	errs := []error{index.unlink(index.journal.added)}

	fresh := index.journal.interned
	index.journal.reset()
	errs = append(errs, index.sweep(fresh))

	return added, retracted, errors.Join(errs...)
}
