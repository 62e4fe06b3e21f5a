// Package impl holds the small value types shared by all layers of the triplestore.
package impl

import (
	"errors"
	"fmt"
	"math"
)

// cspell:words impl

// Key is the content key of an interned term.
// Two terms share a key iff they are structurally equal.
type Key string

// KeyAsByte encodes a key as a set of bytes.
func KeyAsByte(key Key) []byte {
	return []byte(key)
}

// Role is the position a term occupies inside a statement.
type Role uint8

const (
	Subject Role = iota
	Predicate
	Object
	Context

	// RoleCount is the number of roles a term may play.
	RoleCount = int(Context) + 1
)

// Roles lists all roles in statement order.
var Roles = [RoleCount]Role{Subject, Predicate, Object, Context}

func (role Role) String() string {
	switch role {
	case Subject:
		return "subject"
	case Predicate:
		return "predicate"
	case Object:
		return "object"
	case Context:
		return "context"
	default:
		return fmt.Sprintf("Role(%d)", uint8(role))
	}
}

// Snapshot identifies a published version of the store.
// Snapshots are totally ordered; the empty store is snapshot 0.
type Snapshot uint64

// Open is the till value of a statement that has not been retracted.
// It compares greater than any snapshot that is ever published.
const Open Snapshot = math.MaxUint64

func (s Snapshot) String() string {
	if s == Open {
		return "open"
	}
	return fmt.Sprintf("Snapshot(%d)", uint64(s))
}

var (
	// ErrConcurrencyViolation indicates that a transaction was used outside of its lifetime.
	// It is a programming error and retrying does not help.
	ErrConcurrencyViolation = errors.New("concurrency violation")

	// ErrInvariantViolation indicates that internal bookkeeping of the store is inconsistent.
	// A store reporting it must not be used any longer.
	ErrInvariantViolation = errors.New("invariant violation")
)
