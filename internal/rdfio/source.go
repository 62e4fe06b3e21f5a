// Package rdfio reads statements from RDF files into a store, and writes them back out.
package rdfio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/FAU-CDI/nightcap/pkg/term"
	"github.com/anglo-korean/rdf"
)

// cspell:words rdfio nquads

// Source represents a source of statements
type Source interface {
	// Open opens this data source.
	//
	// It is valid to call open more than once after Next() returns a token with err = io.EOF.
	// In this case the second call to open should reset the data source.
	Open() error

	// Close closes this source.
	Close() error

	// Next scans the next token
	Next() Token
}

// Token represents a token read from a source.
//
// It is either an error token, with Err != nil, or a statement.
// A missing Context means the default graph.
// Err is io.EOF at the end of the source.
type Token struct {
	Subject   term.Term
	Predicate term.Term
	Object    term.Term
	Context   term.Term

	Err error
}

// File is a source reading from a file on disk.
type File struct {
	Source
	file *os.File
}

// Close closes both the source and the underlying file.
func (f *File) Close() error {
	err := f.Source.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// OpenFile opens the file at path and returns a source that reads it.
// The syntax is picked based on the file extension:
//
//	.nq .nquads   N-Quads
//	.nt           N-Triples
//	.ttl          Turtle
//	.nts          one statement per line, see the protocol package; may contain triple terms
func OpenFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var source Source
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".nq", ".nquads":
		source = &QuadSource{Reader: file}
	case ".nt":
		source = &TripleSource{Reader: file, Format: rdf.NTriples}
	case ".ttl":
		source = &TripleSource{Reader: file, Format: rdf.Turtle}
	case ".nts":
		source = &LineSource{Reader: file}
	default:
		file.Close()
		return nil, fmt.Errorf("unknown file extension %q", ext)
	}
	return &File{Source: source, file: file}, nil
}

// rewind seeks reader back to the start.
func rewind(reader io.Seeker) error {
	_, err := reader.Seek(0, io.SeekStart)
	return err
}
