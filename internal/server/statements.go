package server

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/FAU-CDI/nightcap/internal/rdfio"
	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/FAU-CDI/nightcap/internal/triplestore/igraph"
	"github.com/FAU-CDI/nightcap/pkg/protocol"
)

// Query parameters selecting statements.
const (
	SubjectParam   = "subj"
	PredicateParam = "pred"
	ObjectParam    = "obj"
	ContextParam   = "context" // protocol.Null selects the default graph
)

// patternOf reads a pattern from the query parameters of r.
func patternOf(r *http.Request) (pattern igraph.Pattern, err error) {
	query := r.URL.Query()

	if value := query.Get(SubjectParam); value != "" {
		if pattern.Subject, err = protocol.DecodeValue(value, nil); err != nil {
			return pattern, fmt.Errorf("%s: %w", SubjectParam, err)
		}
	}
	if value := query.Get(PredicateParam); value != "" {
		if pattern.Predicate, err = protocol.DecodeIRI(value, nil); err != nil {
			return pattern, fmt.Errorf("%s: %w", PredicateParam, err)
		}
	}
	if value := query.Get(ObjectParam); value != "" {
		if pattern.Object, err = protocol.DecodeValue(value, nil); err != nil {
			return pattern, fmt.Errorf("%s: %w", ObjectParam, err)
		}
	}
	if value := query.Get(ContextParam); value != "" {
		if pattern.Context, err = protocol.DecodeContext(value, nil); err != nil {
			return pattern, fmt.Errorf("%s: %w", ContextParam, err)
		}
		pattern.DefaultGraph = pattern.Context.IsZero()
	}
	return pattern, nil
}

// Statement is the json form of a statement.
// Terms are encoded with protocol.EncodeValue; Context is omitted for the default graph.
type Statement struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Context   string `json:"context,omitempty"`
}

func (server *Server) getStatements(w http.ResponseWriter, r *http.Request) {
	pattern, err := patternOf(r)
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	txn, err := server.Store.OpenRead()
	if err != nil {
		server.writeError(w, r, err)
		return
	}
	defer txn.Close()

	statements, err := txn.Match(pattern)
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		results := make([]Statement, 0)
		for statement := range statements {
			subject, predicate, object, context := statement.Quad()

			result := Statement{
				Subject:   protocol.EncodeValue(subject),
				Predicate: protocol.EncodeValue(predicate),
				Object:    protocol.EncodeValue(object),
			}
			if !context.IsZero() {
				result.Context = protocol.EncodeValue(context)
			}
			results = append(results, result)
		}
		writeJSON(w, results)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	buffer := bufio.NewWriter(w)
	defer buffer.Flush()

	for statement := range statements {
		buffer.WriteString(protocol.EncodeStatement(statement.Quad()))
		buffer.WriteString(" .\n")
	}
}

// Changes is the response to a request changing statements.
type Changes struct {
	Snapshot uint64 `json:"snapshot"`
	Count    int    `json:"count"`
}

func (server *Server) addStatements(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, server.maxBodySize()))
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	// a single commit, so that the request is all-or-nothing
	source := &rdfio.LineSource{Reader: bytes.NewReader(body)}
	count, snapshot, err := rdfio.Load(r.Context(), server.Store, source, rdfio.LoadOptions{}, nil)
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	writeJSON(w, Changes{Snapshot: uint64(snapshot), Count: count})
}

func (server *Server) removeStatements(w http.ResponseWriter, r *http.Request) {
	pattern, err := patternOf(r)
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	var count int
	snapshot, err := server.Store.Update(r.Context(), func(txn *triplestore.WriteTxn) (err error) {
		count, err = txn.Remove(pattern)
		return err
	})
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	writeJSON(w, Changes{Snapshot: uint64(snapshot), Count: count})
}

func (server *Server) getContexts(w http.ResponseWriter, r *http.Request) {
	txn, err := server.Store.OpenRead()
	if err != nil {
		server.writeError(w, r, err)
		return
	}
	defer txn.Close()

	contexts, err := txn.Contexts()
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	results := make([]string, 0)
	for context := range contexts {
		results = append(results, protocol.EncodeValue(context))
	}
	writeJSON(w, results)
}

func (server *Server) getSize(w http.ResponseWriter, r *http.Request) {
	pattern, err := patternOf(r)
	if err != nil {
		server.writeError(w, r, err)
		return
	}

	txn, err := server.Store.OpenRead()
	if err != nil {
		server.writeError(w, r, err)
		return
	}
	defer txn.Close()

	size, err := txn.Count(igraph.Pattern{Context: pattern.Context, DefaultGraph: pattern.DefaultGraph})
	if err != nil {
		server.writeError(w, r, err)
		return
	}
	writeText(w, strconv.Itoa(size))
}
