package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/FAU-CDI/nightcap/pkg/term"
)

// ErrSyntax is returned when an encoded value cannot be parsed.
var ErrSyntax = errors.New("syntax error")

// DecodeValue decodes a single value encoded with [EncodeValue].
// Terms are created using factory, or [term.DefaultFactory] when factory is nil.
func DecodeValue(encoded string, factory term.Factory) (term.Term, error) {
	p := newParser(encoded, factory)
	value, err := p.value()
	if err != nil {
		return term.Term{}, err
	}
	if err := p.end(); err != nil {
		return term.Term{}, err
	}
	return value, nil
}

// DecodeContext is like DecodeValue, but only accepts values that may be used as the context of a statement.
// Encoded triple terms and literals are rejected with [term.ErrUnsupportedPosition].
// [Null] decodes to the missing term, denoting the default graph.
func DecodeContext(encoded string, factory term.Factory) (term.Term, error) {
	value, err := DecodeValue(encoded, factory)
	if err != nil {
		return term.Term{}, err
	}
	if !value.IsZero() && !value.IsContext() {
		return term.Term{}, fmt.Errorf("%w: %s %q as context", term.ErrUnsupportedPosition, value.Kind(), encoded)
	}
	return value, nil
}

// DecodeIRI is like DecodeValue, but only accepts IRIs.
func DecodeIRI(encoded string, factory term.Factory) (term.Term, error) {
	value, err := DecodeValue(encoded, factory)
	if err != nil {
		return term.Term{}, err
	}
	if value.Kind() != term.IRI {
		return term.Term{}, fmt.Errorf("%w: %s %q where an iri is required", term.ErrUnsupportedPosition, value.Kind(), encoded)
	}
	return value, nil
}

// DecodeValues decodes a sequence of whitespace-separated values, such as a line produced by [EncodeStatement].
// A single trailing '.' is permitted, so that N-Triples-star lines can be read.
func DecodeValues(encoded string, factory term.Factory) ([]term.Term, error) {
	p := newParser(strings.TrimSuffix(strings.TrimSpace(encoded), "."), factory)

	var values []term.Term
	for {
		p.skipSpace()
		if p.done() {
			return values, nil
		}
		value, err := p.value()
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
}

type parser struct {
	input   string
	pos     int
	factory term.Factory
}

func newParser(input string, factory term.Factory) *parser {
	if factory == nil {
		factory = term.DefaultFactory
	}
	return &parser{input: input, factory: factory}
}

func (p *parser) done() bool { return p.pos >= len(p.input) }
func (p *parser) rest() string { return p.input[p.pos:] }

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w at offset %d of %q: %s", ErrSyntax, p.pos, p.input, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for !p.done() {
		switch p.input[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) end() error {
	p.skipSpace()
	if !p.done() {
		return p.errorf("trailing input")
	}
	return nil
}

func (p *parser) value() (term.Term, error) {
	p.skipSpace()
	rest := p.rest()
	switch {
	case strings.HasPrefix(rest, "<<"):
		return p.triple()
	case strings.HasPrefix(rest, "<"):
		iri, err := p.iri()
		if err != nil {
			return term.Term{}, err
		}
		return p.factory.IRI(iri)
	case strings.HasPrefix(rest, "_:"):
		return p.blank()
	case strings.HasPrefix(rest, `"`):
		return p.literal()
	case strings.HasPrefix(rest, Null):
		p.pos += len(Null)
		return term.Term{}, nil
	case rest == "":
		return term.Term{}, p.errorf("unexpected end of input")
	default:
		return term.Term{}, p.errorf("unexpected character %q", rest[0])
	}
}

func (p *parser) triple() (term.Term, error) {
	p.pos += len("<<")

	var parts [3]term.Term
	for i := range parts {
		value, err := p.value()
		if err != nil {
			return term.Term{}, err
		}
		parts[i] = value
	}

	p.skipSpace()
	if !strings.HasPrefix(p.rest(), ">>") {
		return term.Term{}, p.errorf("expected '>>'")
	}
	p.pos += len(">>")

	return p.factory.Triple(parts[0], parts[1], parts[2])
}

func (p *parser) iri() (string, error) {
	p.pos++ // '<'

	var builder strings.Builder
	for {
		if p.done() {
			return "", p.errorf("unterminated iri")
		}
		c := p.input[p.pos]
		switch c {
		case '>':
			p.pos++
			return builder.String(), nil
		case '\\':
			if err := p.unicodeEscape(&builder); err != nil {
				return "", err
			}
		case '<', ' ', '"':
			return "", p.errorf("illegal character %q in iri", c)
		default:
			builder.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) blank() (term.Term, error) {
	p.pos += len("_:")
	start := p.pos
	for !p.done() && isBlankChar(p.input[p.pos]) {
		p.pos++
	}
	// a label never ends in '.'
	for p.pos > start && p.input[p.pos-1] == '.' {
		p.pos--
	}
	return p.factory.BlankNode(p.input[start:p.pos])
}

func isBlankChar(c byte) bool {
	return c == '_' || c == '-' || c == '.' ||
		('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
		c >= utf8.RuneSelf
}

func (p *parser) literal() (term.Term, error) {
	p.pos++ // '"'

	var lexical strings.Builder
	for {
		if p.done() {
			return term.Term{}, p.errorf("unterminated literal")
		}
		c := p.input[p.pos]
		if c == '"' {
			p.pos++
			break
		}
		if c != '\\' {
			lexical.WriteByte(c)
			p.pos++
			continue
		}
		if err := p.stringEscape(&lexical); err != nil {
			return term.Term{}, err
		}
	}

	var datatype, language string
	rest := p.rest()
	switch {
	case strings.HasPrefix(rest, "@"):
		p.pos++
		start := p.pos
		for !p.done() && isLanguageChar(p.input[p.pos]) {
			p.pos++
		}
		language = p.input[start:p.pos]
		if language == "" {
			return term.Term{}, p.errorf("empty language tag")
		}
	case strings.HasPrefix(rest, "^^<"):
		p.pos += len("^^")
		var err error
		if datatype, err = p.iri(); err != nil {
			return term.Term{}, err
		}
	}

	return p.factory.Literal(lexical.String(), datatype, language)
}

func isLanguageChar(c byte) bool {
	return c == '-' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func (p *parser) stringEscape(builder *strings.Builder) error {
	if p.pos+1 >= len(p.input) {
		return p.errorf("unterminated escape")
	}
	var replacement byte
	switch p.input[p.pos+1] {
	case 't':
		replacement = '\t'
	case 'b':
		replacement = '\b'
	case 'n':
		replacement = '\n'
	case 'r':
		replacement = '\r'
	case 'f':
		replacement = '\f'
	case '"':
		replacement = '"'
	case '\'':
		replacement = '\''
	case '\\':
		replacement = '\\'
	default:
		return p.unicodeEscape(builder)
	}
	builder.WriteByte(replacement)
	p.pos += 2
	return nil
}

// unicodeEscape decodes a \uXXXX or \UXXXXXXXX escape starting at the current position.
func (p *parser) unicodeEscape(builder *strings.Builder) error {
	rest := p.rest()

	var digits int
	switch {
	case strings.HasPrefix(rest, `\u`):
		digits = 4
	case strings.HasPrefix(rest, `\U`):
		digits = 8
	default:
		return p.errorf("invalid escape sequence")
	}
	if len(rest) < 2+digits {
		return p.errorf("truncated escape sequence")
	}

	code, err := strconv.ParseUint(rest[2:2+digits], 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		return p.errorf("invalid code point %q", rest[2:2+digits])
	}

	builder.WriteRune(rune(code))
	p.pos += 2 + digits
	return nil
}
