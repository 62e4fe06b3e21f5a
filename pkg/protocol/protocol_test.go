package protocol_test

import (
	"fmt"
	"testing"

	"github.com/FAU-CDI/nightcap/pkg/protocol"
	"github.com/FAU-CDI/nightcap/pkg/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	serverLocation = "http://localhost/openrdf"
	repositoryID   = "mem-rdf"
)

var repositoryLocation = serverLocation + "/repositories/" + repositoryID

func iri(value string) term.Term {
	return term.Must(term.NewIRI(value))
}

func ExampleEncodeValue() {
	quoted := term.Must(term.NewTriple(
		term.Must(term.NewBlankNodeWithID("foo-bar-1")),
		iri("urn:test"),
		term.NewInteger(16),
	))
	fmt.Println(protocol.EncodeValue(quoted))
	fmt.Println(protocol.EncodeValue(term.Term{}))

	// Output: <<_:foo-bar-1 <urn:test> "16"^^<http://www.w3.org/2001/XMLSchema#integer>>>
	// null
}

func TestEncodeValue_RoundTrip(t *testing.T) {
	bnode := term.Must(term.NewBlankNodeWithID("foo-bar-1"))
	uri := iri("urn:test")
	simple := term.Must(term.NewTriple(bnode, uri, term.NewInteger(16)))
	nested := term.Must(term.NewTriple(bnode, uri, simple))

	tests := []struct {
		name  string
		value term.Term
	}{
		{"iri", uri},
		{"blank node", bnode},
		{"plain literal", term.NewLiteral("hello \"world\"\n\ttab \\ back")},
		{"language literal", term.Must(term.NewLangLiteral("hallo", "de-DE"))},
		{"typed literal", term.NewBoolean(true)},
		{"unicode", term.NewLiteral("é\U0001F600\x01")},
		{"escaped iri", iri("urn:with space<and>brackets")},
		{"triple", simple},
		{"nested triple", nested},
		{"missing", term.Term{}},
		{"unicode blank node", term.Must(term.NewBlankNodeWithID("été.1"))},
		{"invalid utf-8 literal", term.NewLiteral("\xff\xfe")},
		{"language with digits", term.Must(term.NewLangLiteral("x", "es-419"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := protocol.EncodeValue(tt.value)
			decoded, err := protocol.DecodeValue(encoded, term.DefaultFactory)
			require.NoError(t, err, encoded)
			assert.True(t, tt.value.Equal(decoded), "%s decoded to %s", encoded, decoded)
		})
	}
}

func TestEncodeStatement_BlankNodes(t *testing.T) {
	subject := term.Must(term.NewBlankNodeWithID("a.b"))
	object := term.Must(term.NewBlankNodeWithID("c"))

	got, err := protocol.DecodeValues(protocol.EncodeStatement(subject, iri("urn:p"), object, term.Term{})+" .", nil)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.True(t, subject.Equal(got[0]))
	assert.True(t, object.Equal(got[2]))

	_, err = protocol.DecodeValue("_:a.", nil)
	assert.ErrorIs(t, err, protocol.ErrSyntax)
}

func TestDecodeValue_Whitespace(t *testing.T) {
	got, err := protocol.DecodeValue("<<<urn:a><urn:b><urn:c>>>", nil)
	require.NoError(t, err)

	want := term.Must(term.NewTriple(iri("urn:a"), iri("urn:b"), iri("urn:c")))
	assert.True(t, want.Equal(got))

	got, err = protocol.DecodeValue("  << <urn:a>   <urn:b> <urn:c> >>  ", nil)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))
}

func TestDecodeValue_Errors(t *testing.T) {
	for _, encoded := range []string{
		"",
		"<urn:unterminated",
		`"unterminated`,
		"<<<urn:a> <urn:b>>>",
		"<urn:a> trailing",
		`"x"@`,
		`"bad \q escape"`,
		"?",
	} {
		_, err := protocol.DecodeValue(encoded, nil)
		assert.ErrorIs(t, err, protocol.ErrSyntax, encoded)
	}

	// literal in predicate position
	_, err := protocol.DecodeValue(`<<<urn:a> "b" <urn:c>>>`, nil)
	assert.ErrorIs(t, err, term.ErrUnsupportedPosition)
}

func TestDecodeContext(t *testing.T) {
	got, err := protocol.DecodeContext("_:bnode1", nil)
	require.NoError(t, err)
	assert.True(t, term.Must(term.NewBlankNodeWithID("bnode1")).Equal(got))

	got, err = protocol.DecodeContext("<urn:test>", nil)
	require.NoError(t, err)
	assert.True(t, iri("urn:test").Equal(got))

	got, err = protocol.DecodeContext(protocol.Null, nil)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = protocol.DecodeContext("<<<urn:a> <urn:b> <urn:c>>>", nil)
	assert.ErrorIs(t, err, term.ErrUnsupportedPosition)

	_, err = protocol.DecodeContext(`"literal"`, nil)
	assert.ErrorIs(t, err, term.ErrUnsupportedPosition)
}

func TestDecodeIRI(t *testing.T) {
	got, err := protocol.DecodeIRI("<urn:test>", nil)
	require.NoError(t, err)
	assert.True(t, iri("urn:test").Equal(got))

	_, err = protocol.DecodeIRI("<<<urn:a><urn:b><urn:c>>>", nil)
	assert.ErrorIs(t, err, term.ErrUnsupportedPosition)

	_, err = protocol.DecodeIRI("_:b", nil)
	assert.ErrorIs(t, err, term.ErrUnsupportedPosition)
}

func TestDecodeValues(t *testing.T) {
	subject := iri("urn:a")
	predicate := iri("urn:b")
	object := term.Must(term.NewTriple(subject, predicate, term.NewLiteral("c")))
	context := iri("urn:g")

	line := protocol.EncodeStatement(subject, predicate, object, context)
	got, err := protocol.DecodeValues(line+" .", nil)
	require.NoError(t, err)
	require.Len(t, got, 4)
	assert.True(t, subject.Equal(got[0]))
	assert.True(t, predicate.Equal(got[1]))
	assert.True(t, object.Equal(got[2]))
	assert.True(t, context.Equal(got[3]))

	got, err = protocol.DecodeValues(protocol.EncodeStatement(subject, predicate, object, term.Term{}), nil)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestLocations(t *testing.T) {
	assert.Equal(t, serverLocation+"/protocol", protocol.ProtocolLocation(serverLocation))
	assert.Equal(t, serverLocation+"/config", protocol.ConfigLocation(serverLocation))
	assert.Equal(t, serverLocation+"/repositories", protocol.RepositoriesLocation(serverLocation))
	assert.Equal(t, repositoryLocation, protocol.RepositoryLocation(serverLocation, repositoryID))

	assert.Equal(t, serverLocation, protocol.ServerLocation(repositoryLocation))
	assert.Equal(t, repositoryID, protocol.RepositoryID(repositoryLocation))

	assert.Equal(t, repositoryLocation+"/config", protocol.RepositoryConfigLocation(repositoryLocation))
	assert.Equal(t, repositoryLocation+"/contexts", protocol.ContextsLocation(repositoryLocation))
	assert.Equal(t, repositoryLocation+"/namespaces", protocol.NamespacesLocation(repositoryLocation))
	assert.Equal(t, repositoryLocation+"/statements", protocol.StatementsLocation(repositoryLocation))
	assert.Equal(t, repositoryLocation+"/size", protocol.SizeLocation(repositoryLocation))
}
