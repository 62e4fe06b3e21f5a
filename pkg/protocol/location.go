package protocol

import "strings"

// Version is the protocol version reported by servers.
const Version = "12"

// Path segments of server resources.
const (
	PROTOCOL     = "protocol"
	CONFIG       = "config"
	REPOSITORIES = "repositories"
	CONTEXTS     = "contexts"
	NAMESPACES   = "namespaces"
	STATEMENTS   = "statements"
	SIZE         = "size"
)

// ProtocolLocation returns the location of the protocol version resource of a server.
func ProtocolLocation(server string) string {
	return server + "/" + PROTOCOL
}

// ConfigLocation returns the location of the configuration resource of a server.
func ConfigLocation(server string) string {
	return server + "/" + CONFIG
}

// RepositoriesLocation returns the location of the list of repositories of a server.
func RepositoriesLocation(server string) string {
	return server + "/" + REPOSITORIES
}

// RepositoryLocation returns the location of the repository with the given id.
func RepositoryLocation(server, id string) string {
	return RepositoriesLocation(server) + "/" + id
}

// ServerLocation returns the location of the server of a repository location.
// It is the inverse of [RepositoryLocation].
func ServerLocation(repository string) string {
	end := strings.LastIndex(repository, "/")
	if end < 0 {
		return ""
	}
	return strings.TrimSuffix(repository[:end], "/"+REPOSITORIES)
}

// RepositoryID returns the id of the repository at the given location.
func RepositoryID(repository string) string {
	return repository[strings.LastIndex(repository, "/")+1:]
}

// RepositoryConfigLocation returns the location of the configuration of a repository.
func RepositoryConfigLocation(repository string) string {
	return repository + "/" + CONFIG
}

// ContextsLocation returns the location of the contexts of a repository.
func ContextsLocation(repository string) string {
	return repository + "/" + CONTEXTS
}

// NamespacesLocation returns the location of the namespaces of a repository.
func NamespacesLocation(repository string) string {
	return repository + "/" + NAMESPACES
}

// StatementsLocation returns the location of the statements of a repository.
func StatementsLocation(repository string) string {
	return repository + "/" + STATEMENTS
}

// SizeLocation returns the location of the size of a repository.
func SizeLocation(repository string) string {
	return repository + "/" + SIZE
}
