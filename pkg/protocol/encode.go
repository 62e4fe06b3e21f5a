// Package protocol implements the textual encoding of terms used on the wire,
// and the locations of resources exposed by a server.
//
// The encoding follows N-Triples-star:
//
//	<http://example.org/iri>           an IRI
//	_:b1                               a blank node
//	"text"  "text"@en  "16"^^<dt>      literals
//	<<<urn:a> <urn:b> "c">>            a triple term
//	null                               the missing term (the default graph when used as a context)
//
// For every term v, DecodeValue(EncodeValue(v)) is equal to v.
package protocol

import (
	"fmt"
	"strings"

	"github.com/FAU-CDI/nightcap/pkg/term"
)

// cspell:words iri

// Null is the encoding of the missing term.
const Null = "null"

// EncodeValue encodes a term into a string.
func EncodeValue(value term.Term) string {
	var builder strings.Builder
	writeValue(&builder, value)
	return builder.String()
}

// EncodeStatement encodes a statement as a line of whitespace-separated values.
// The context is omitted when it is the missing term.
func EncodeStatement(subject, predicate, object, context term.Term) string {
	var builder strings.Builder
	writeValue(&builder, subject)
	builder.WriteByte(' ')
	writeValue(&builder, predicate)
	builder.WriteByte(' ')
	writeValue(&builder, object)
	if !context.IsZero() {
		builder.WriteByte(' ')
		writeValue(&builder, context)
	}
	return builder.String()
}

func writeValue(builder *strings.Builder, value term.Term) {
	switch value.Kind() {
	case term.IRI:
		writeIRI(builder, value.Value())
	case term.BlankNode:
		builder.WriteString("_:")
		builder.WriteString(value.Value())
	case term.Literal:
		builder.WriteByte('"')
		writeString(builder, value.Value())
		builder.WriteByte('"')
		switch {
		case value.Language() != "":
			builder.WriteByte('@')
			builder.WriteString(value.Language())
		case value.Datatype() != term.XSDString:
			builder.WriteString("^^")
			writeIRI(builder, value.Datatype())
		}
	case term.TripleTerm:
		triple, _ := value.Triple()
		builder.WriteString("<<")
		writeValue(builder, triple.Subject())
		builder.WriteByte(' ')
		writeValue(builder, triple.Predicate())
		builder.WriteByte(' ')
		writeValue(builder, triple.Object())
		builder.WriteString(">>")
	default:
		builder.WriteString(Null)
	}
}

func writeIRI(builder *strings.Builder, iri string) {
	builder.WriteByte('<')
	for _, r := range iri {
		switch {
		case r <= 0x20, r == '<', r == '>', r == '"', r == '{', r == '}', r == '|', r == '^', r == '`', r == '\\':
			writeUnicodeEscape(builder, r)
		default:
			builder.WriteRune(r)
		}
	}
	builder.WriteByte('>')
}

func writeString(builder *strings.Builder, value string) {
	for _, r := range value {
		switch r {
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F {
				writeUnicodeEscape(builder, r)
				continue
			}
			builder.WriteRune(r)
		}
	}
}

func writeUnicodeEscape(builder *strings.Builder, r rune) {
	if r > 0xFFFF {
		fmt.Fprintf(builder, `\U%08X`, r)
		return
	}
	fmt.Fprintf(builder, `\u%04X`, r)
}
