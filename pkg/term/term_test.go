package term_test

import (
	"fmt"
	"testing"

	"github.com/FAU-CDI/nightcap/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iri(value string) term.Term {
	return term.Must(term.NewIRI(value))
}

func triple(s, p, o term.Term) term.Term {
	return term.Must(term.NewTriple(s, p, o))
}

func ExampleNewTriple() {
	inner := term.Must(term.NewTriple(
		term.Must(term.NewIRI("http://example.org/c")),
		term.Must(term.NewIRI("http://example.org/d")),
		term.NewInteger(16),
	))
	fmt.Println(inner)
	fmt.Println(inner.Kind())

	// Output: <<(http://example.org/c http://example.org/d "16"^^<http://www.w3.org/2001/XMLSchema#integer>)>>
	// triple term
}

func TestTriple_Constructor(t *testing.T) {
	subject := iri("http://example.org/subject")
	predicate := iri("http://example.org/predicate")
	object := iri("http://example.org/object")

	tt, err := term.NewTriple(subject, predicate, object)
	require.NoError(t, err)

	tr, ok := tt.Triple()
	require.True(t, ok)
	assert.True(t, tr.Subject().Equal(subject))
	assert.True(t, tr.Predicate().Equal(predicate))
	assert.True(t, tr.Object().Equal(object))

	var missing term.Term
	for _, args := range [][3]term.Term{
		{missing, predicate, object},
		{subject, missing, object},
		{subject, predicate, missing},
	} {
		_, err := term.NewTriple(args[0], args[1], args[2])
		assert.ErrorIs(t, err, term.ErrValidation)
	}

	_, err = term.NewTriple(term.NewLiteral("x"), predicate, object)
	assert.ErrorIs(t, err, term.ErrUnsupportedPosition)

	_, err = term.NewTriple(subject, term.NewBlankNode(), object)
	assert.ErrorIs(t, err, term.ErrUnsupportedPosition)
}

func TestTriple_Equal(t *testing.T) {
	subject := iri("http://example.org/subject")
	predicate := iri("http://example.org/predicate")
	object := iri("http://example.org/object")
	other := iri("http://example.org/other")

	tt := triple(subject, predicate, object)

	assert.True(t, tt.Equal(tt))
	assert.True(t, tt.Equal(triple(
		iri("http://example.org/subject"),
		iri("http://example.org/predicate"),
		iri("http://example.org/object"),
	)))

	assert.False(t, tt.Equal(term.Term{}))
	assert.False(t, tt.Equal(subject))
	assert.False(t, tt.Equal(triple(other, predicate, object)))
	assert.False(t, tt.Equal(triple(subject, other, object)))
	assert.False(t, tt.Equal(triple(subject, predicate, other)))

	// no positional commutation
	assert.False(t, tt.Equal(triple(subject, object, predicate)))
}

func TestTriple_Hash(t *testing.T) {
	subject := term.NewBlankNode()
	predicate := iri("http://example.org/predicate")
	object := term.NewInteger(16)

	tt := triple(subject, predicate, object)
	assert.Equal(t, term.Combine(subject.Hash(), predicate.Hash(), object.Hash()), tt.Hash())

	nested := triple(subject, predicate, tt)
	assert.Equal(t, term.Combine(subject.Hash(), predicate.Hash(), tt.Hash()), nested.Hash())

	// equal values built independently hash equally
	again := triple(
		term.Must(term.NewBlankNodeWithID(subject.Value())),
		iri("http://example.org/predicate"),
		term.NewInteger(16),
	)
	assert.Equal(t, tt.Hash(), again.Hash())
	assert.True(t, tt.Equal(again))
}

func TestTerm_Equal(t *testing.T) {
	lang := term.Must(term.NewLangLiteral("hello", "en"))
	typed := term.Must(term.NewTypedLiteral("hello", ""))

	tests := []struct {
		name string
		a, b term.Term
		want bool
	}{
		{"same iri", iri("urn:a"), iri("urn:a"), true},
		{"different iri", iri("urn:a"), iri("urn:b"), false},
		{"iri vs blank", iri("a"), term.Must(term.NewBlankNodeWithID("a")), false},
		{"plain vs typed string", term.NewLiteral("hello"), typed, true},
		{"plain vs lang", term.NewLiteral("hello"), lang, false},
		{"integer", term.NewInteger(16), term.Must(term.NewTypedLiteral("16", term.XSDInteger)), true},
		{"integer vs string", term.NewInteger(16), term.NewLiteral("16"), false},
		{"missing", term.Term{}, term.Term{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			if tt.want {
				assert.Equal(t, tt.a.Hash(), tt.b.Hash())
			}
		})
	}
}

func TestTerm_Validation(t *testing.T) {
	_, err := term.NewIRI("")
	assert.ErrorIs(t, err, term.ErrValidation)

	_, err = term.NewBlankNodeWithID("")
	assert.ErrorIs(t, err, term.ErrValidation)

	_, err = term.NewLangLiteral("x", "")
	assert.ErrorIs(t, err, term.ErrValidation)

	_, err = term.NewTypedLiteral("x", term.LangString)
	assert.ErrorIs(t, err, term.ErrValidation)

	for _, id := range []string{"a b", "urn:x", "x>", "-a", ".a", "a.", "a\"b", "\xff"} {
		_, err = term.NewBlankNodeWithID(id)
		assert.ErrorIs(t, err, term.ErrValidation, id)
	}
	for _, id := range []string{"a", "_x", "0", "a.b", "a-b_c", "été"} {
		_, err = term.NewBlankNodeWithID(id)
		assert.NoError(t, err, id)
	}

	_, err = term.NewIRI("http://e/\xff")
	assert.ErrorIs(t, err, term.ErrValidation)

	_, err = term.NewTypedLiteral("\xff", term.XSDInteger)
	assert.ErrorIs(t, err, term.ErrValidation)

	for _, tag := range []string{"en US", "en-", "-en", "1en", "en>"} {
		_, err = term.NewLangLiteral("x", tag)
		assert.ErrorIs(t, err, term.ErrValidation, tag)
	}
	_, err = term.NewLangLiteral("\xff", "en")
	assert.ErrorIs(t, err, term.ErrValidation)

	assert.Equal(t, "a\uFFFDb", term.NewLiteral("a\xffb").Value())

	assert.NotEqual(t, term.NewBlankNode().Value(), term.NewBlankNode().Value())
}
