// Package server exposes a store over http.
//
// Statements are exchanged as lines of values encoded with the protocol package,
// one statement per line, in the order subject, predicate, object and an optional context.
package server

import (
	"net/http"
	"sync"

	"github.com/FAU-CDI/nightcap/internal/stats"
	"github.com/FAU-CDI/nightcap/internal/triplestore"
	"github.com/FAU-CDI/nightcap/pkg/protocol"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// cspell:words promhttp

// Server implements an [http.Handler] that serves a single repository backed by a store.
type Server struct {
	Store      *triplestore.Store
	Repository string // id of the repository

	Stats    *stats.Stats         // may be nil
	Gatherer prometheus.Gatherer // when non-nil, served at /metrics

	MaxBodySize int64 // maximum size of request bodies; <= 0 means DefaultMaxBodySize

	init sync.Once
	mux  mux.Router
}

// DefaultMaxBodySize is the default maximum size of request bodies.
const DefaultMaxBodySize = 64 << 20

// MetricsPath is the path metrics are served at.
const MetricsPath = "/metrics"

func (server *Server) Prepare() {
	server.init.Do(func() {
		repository := protocol.RepositoryLocation("", "{id}")

		server.mux.HandleFunc(protocol.ProtocolLocation(""), server.getProtocol).Methods(http.MethodGet)
		server.mux.HandleFunc(protocol.RepositoriesLocation(""), server.getRepositories).Methods(http.MethodGet)

		statements := protocol.StatementsLocation(repository)
		server.mux.HandleFunc(statements, server.repository(server.getStatements)).Methods(http.MethodGet)
		server.mux.HandleFunc(statements, server.repository(server.addStatements)).Methods(http.MethodPost)
		server.mux.HandleFunc(statements, server.repository(server.removeStatements)).Methods(http.MethodDelete)

		server.mux.HandleFunc(protocol.ContextsLocation(repository), server.repository(server.getContexts)).Methods(http.MethodGet)
		server.mux.HandleFunc(protocol.SizeLocation(repository), server.repository(server.getSize)).Methods(http.MethodGet)

		if server.Gatherer != nil {
			server.mux.Handle(MetricsPath, promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
		}
	})
}

func (server *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	server.Prepare()
	server.mux.ServeHTTP(w, r)
}

// repository wraps handler to only serve the configured repository
func (server *Server) repository(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if mux.Vars(r)["id"] != server.Repository {
			http.NotFound(w, r)
			return
		}
		handler(w, r)
	}
}

func (server *Server) maxBodySize() int64 {
	if server.MaxBodySize <= 0 {
		return DefaultMaxBodySize
	}
	return server.MaxBodySize
}

func (server *Server) getProtocol(w http.ResponseWriter, r *http.Request) {
	writeText(w, protocol.Version)
}

// Repository describes a repository in the list of repositories.
type Repository struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

func (server *Server) getRepositories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, []Repository{
		{
			ID:  server.Repository,
			URI: protocol.RepositoryLocation(serverLocation(r), server.Repository),
		},
	})
}

// serverLocation returns the location of the server as seen by the client making r
func serverLocation(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
