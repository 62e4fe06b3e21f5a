package igraph

import (
	"fmt"
	"iter"
	"strings"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
	"github.com/FAU-CDI/nightcap/pkg/term"
)

// cspell:words interner

// Interned is the canonical representation of a term inside an [Index].
//
// Within one index there is exactly one Interned for every structurally distinct term.
// Interned values of different indexes must not be compared; compare their [Interned.Term] instead.
type Interned struct {
	id    impl.ID
	key   impl.Key
	hash  uint64
	value term.Term    // the term itself, unless this is a triple term
	parts [3]*Interned // components of a triple term

	refs [impl.RoleCount]list

	// number of interned triple terms quoting this term, counted once per position.
	// only touched by the writer.
	embedded int
}

// ID returns the id of this term.
// IDs are never reused within an index.
func (in *Interned) ID() impl.ID { return in.id }

// Term returns the plain term represented by this interned term.
// Triple terms are rebuilt from their interned components.
func (in *Interned) Term() term.Term {
	if in.parts[0] == nil {
		return in.value
	}
	triple, err := term.MakeTriple(in.parts[0].Term(), in.parts[1].Term(), in.parts[2].Term())
	if err != nil {
		panic("igraph: interned triple term with invalid components")
	}
	return triple.Term()
}

// Kind returns the kind of the represented term.
func (in *Interned) Kind() term.Kind {
	if in.parts[0] != nil {
		return term.TripleTerm
	}
	return in.value.Kind()
}

// Hash returns the structural hash of the represented term.
func (in *Interned) Hash() uint64 { return in.hash }

// Parts returns the interned subject, predicate and object of a triple term.
func (in *Interned) Parts() (subject, predicate, object *Interned, ok bool) {
	if in.parts[0] == nil {
		return nil, nil, nil, false
	}
	return in.parts[0], in.parts[1], in.parts[2], true
}

// Refs returns the number of statements (of any snapshot) which use this term in the given role.
func (in *Interned) Refs(role impl.Role) int {
	return in.refs[role].Len()
}

// Statements lazily yields the statements using this term in the given role that are visible at snapshot n.
func (in *Interned) Statements(role impl.Role, n impl.Snapshot) iter.Seq[*Statement] {
	return in.refs[role].visible(n)
}

// reclaimable reports if nothing references this term anymore.
func (in *Interned) reclaimable() bool {
	if in.embedded > 0 {
		return false
	}
	for i := range in.refs {
		if in.refs[i].Len() != 0 {
			return false
		}
	}
	return true
}

func (in *Interned) String() string {
	return in.Term().String()
}

// atomKey returns the content key of a term that is not a triple term.
func atomKey(value term.Term) impl.Key {
	var builder strings.Builder
	builder.WriteByte(byte(value.Kind()))
	builder.WriteString(value.Value())
	if value.Kind() == term.Literal {
		builder.WriteByte(0)
		builder.WriteString(value.Datatype())
		builder.WriteByte(0)
		builder.WriteString(value.Language())
	}
	return impl.Key(builder.String())
}

// tripleKey returns the content key of a triple term with the given interned components.
func tripleKey(subject, predicate, object *Interned) impl.Key {
	return impl.Key(string([]byte{byte(term.TripleTerm)}) + string(impl.EncodeIDs(subject.id, predicate.id, object.id)))
}

// Intern returns the canonical interned term for value, creating it if needed.
// Components of triple terms are interned first.
//
// Intern may only be called by the writer.
func (index *Index) Intern(value term.Term) (*Interned, error) {
	switch value.Kind() {
	case term.Missing:
		return nil, fmt.Errorf("%w: cannot intern missing term", term.ErrValidation)
	case term.TripleTerm:
		triple, _ := value.Triple()

		var parts [3]*Interned
		for i, part := range [3]term.Term{triple.Subject(), triple.Predicate(), triple.Object()} {
			interned, err := index.Intern(part)
			if err != nil {
				return nil, err
			}
			parts[i] = interned
		}
		return index.store(tripleKey(parts[0], parts[1], parts[2]), value.Hash(), term.Term{}, parts)
	default:
		return index.store(atomKey(value), value.Hash(), value, [3]*Interned{})
	}
}

func (index *Index) store(key impl.Key, hash uint64, value term.Term, parts [3]*Interned) (*Interned, error) {
	_, interned, old, err := index.terms.AddNew(key, func(id impl.ID) *Interned {
		return &Interned{
			id:    id,
			key:   key,
			hash:  hash,
			value: value,
			parts: parts,
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to intern term %q: %w", key, err)
	}
	if old {
		return interned, nil
	}

	for _, part := range parts {
		if part != nil {
			part.embedded++
		}
	}
	index.journal.interned = append(index.journal.interned, interned)
	return interned, nil
}

// Lookup returns the interned term for value, if it exists.
// It never interns anything, and may be called concurrently with the writer.
func (index *Index) Lookup(value term.Term) (*Interned, bool, error) {
	var key impl.Key
	switch value.Kind() {
	case term.Missing:
		return nil, false, nil
	case term.TripleTerm:
		triple, _ := value.Triple()

		var parts [3]*Interned
		for i, part := range [3]term.Term{triple.Subject(), triple.Predicate(), triple.Object()} {
			interned, ok, err := index.Lookup(part)
			if err != nil || !ok {
				return nil, false, err
			}
			parts[i] = interned
		}
		key = tripleKey(parts[0], parts[1], parts[2])
	default:
		key = atomKey(value)
	}

	interned, ok, err := index.terms.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to lookup %s: %w", value, err)
	}
	return interned, ok, nil
}

// forget removes a reclaimable term from the dictionary.
// Components of a forgotten triple term are released, and returned when they became reclaimable.
func (index *Index) forget(interned *Interned) (released []*Interned, err error) {
	if err := index.terms.Delete(interned.key, interned.id); err != nil {
		return nil, fmt.Errorf("failed to forget %s: %w", interned, err)
	}

	for _, part := range interned.parts {
		if part == nil {
			continue
		}
		part.embedded--
		if part.embedded < 0 {
			return released, fmt.Errorf("%w: negative embedding count for %s", impl.ErrInvariantViolation, part)
		}
		if part.reclaimable() {
			released = append(released, part)
		}
	}
	return released, nil
}
