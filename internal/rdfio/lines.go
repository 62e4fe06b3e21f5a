package rdfio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/FAU-CDI/nightcap/pkg/protocol"
)

// LineSource reads statements encoded one per line using [protocol.EncodeStatement].
// Empty lines and lines starting with '#' are skipped.
type LineSource struct {
	Reader io.ReadSeeker

	scanner *bufio.Scanner
	line    int
}

func (ls *LineSource) Open() error {
	if ls.scanner != nil {
		if err := rewind(ls.Reader); err != nil {
			return err
		}
	}
	ls.scanner = bufio.NewScanner(ls.Reader)
	ls.scanner.Buffer(nil, 16*1024*1024)
	ls.line = 0
	return nil
}

func (ls *LineSource) Next() Token {
	for ls.scanner.Scan() {
		ls.line++

		text := strings.TrimSpace(ls.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		values, err := protocol.DecodeValues(text, nil)
		if err != nil {
			return Token{Err: fmt.Errorf("line %d: %w", ls.line, err)}
		}
		if len(values) != 3 && len(values) != 4 {
			return Token{Err: fmt.Errorf("line %d: %w: expected 3 or 4 values, got %d", ls.line, protocol.ErrSyntax, len(values))}
		}

		tok := Token{Subject: values[0], Predicate: values[1], Object: values[2]}
		if len(values) == 4 {
			tok.Context = values[3]
		}
		return tok
	}
	if err := ls.scanner.Err(); err != nil {
		return Token{Err: err}
	}
	return Token{Err: io.EOF}
}

func (ls *LineSource) Close() error {
	return nil
}
