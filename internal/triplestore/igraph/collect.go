package igraph

import (
	"errors"
	"fmt"

	"github.com/FAU-CDI/nightcap/internal/triplestore/impl"
)

// CollectStats describes the result of a single call to [Index.Collect].
type CollectStats struct {
	Statements int // statements reclaimed
	Terms      int // terms reclaimed
}

func (stats CollectStats) String() string {
	return fmt.Sprintf("{statements:%d,terms:%d}", stats.Statements, stats.Terms)
}

// Collect reclaims every retired statement that is invisible to all snapshots >= oldest,
// and afterwards every term no longer referenced by any statement or triple term.
//
// Collect is a writer method; it may run concurrently with readers.
func (index *Index) Collect(oldest impl.Snapshot) (stats CollectStats, err error) {
	victims := make(map[*Statement]struct{})
	for statement := range index.retired {
		till := statement.Till()
		if till == impl.Open || statement.since >= till {
			return stats, fmt.Errorf("%w: retired statement %s has interval [%d, %s)", impl.ErrInvariantViolation, statement, statement.since, till)
		}
		if till <= oldest {
			victims[statement] = struct{}{}
		}
	}

	if err := index.unlink(victims); err != nil {
		return stats, err
	}
	for statement := range victims {
		delete(index.retired, statement)
	}
	index.nRetired.Store(uint64(len(index.retired)))
	stats.Statements = len(victims)

	candidates := make([]*Interned, 0, len(index.orphans))
	for interned := range index.orphans {
		candidates = append(candidates, interned)
	}
	clear(index.orphans)

	before, _ := index.terms.Count()
	if err := index.sweep(candidates); err != nil {
		return stats, err
	}
	after, _ := index.terms.Count()
	stats.Terms = int(before - after)

	if stats.Terms > 0 {
		if err := index.terms.Compact(); err != nil {
			return stats, fmt.Errorf("failed to compact terms: %w", err)
		}
	}
	return stats, nil
}

// unlink removes the given statements from every back-reference list and from the list of all statements.
// The terms they used are remembered as possibly reclaimable.
func (index *Index) unlink(statements map[*Statement]struct{}) error {
	if len(statements) == 0 {
		return nil
	}

	// group statements by the lists they are in
	type slot struct {
		term *Interned
		role impl.Role
	}
	slots := make(map[slot]map[*Statement]struct{})
	for statement := range statements {
		for _, role := range impl.Roles {
			interned := statement.Term(role)
			if interned == nil {
				continue
			}

			key := slot{term: interned, role: role}
			if slots[key] == nil {
				slots[key] = make(map[*Statement]struct{})
			}
			slots[key][statement] = struct{}{}
		}
	}

	var errs []error
	for key, set := range slots {
		if removed := key.term.refs[key.role].removeAll(set); removed != len(set) {
			errs = append(errs, fmt.Errorf("%w: %d statement(s) missing from %s list of %s", impl.ErrInvariantViolation, len(set)-removed, key.role, key.term))
		}
		index.orphans[key.term] = struct{}{}
	}

	if removed := index.all.removeAll(statements); removed != len(statements) {
		errs = append(errs, fmt.Errorf("%w: %d statement(s) missing from index", impl.ErrInvariantViolation, len(statements)-removed))
	}
	return errors.Join(errs...)
}

// sweep forgets every reclaimable term among candidates, cascading into the components of triple terms.
func (index *Index) sweep(candidates []*Interned) error {
	queue := append([]*Interned(nil), candidates...)
	for len(queue) > 0 {
		interned := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		// skip terms that are already gone
		if current, ok := index.terms.Reverse(interned.id); !ok || current != interned {
			continue
		}
		if !interned.reclaimable() {
			continue
		}

		released, err := index.forget(interned)
		if err != nil {
			return err
		}
		delete(index.orphans, interned)
		queue = append(queue, released...)
	}
	return nil
}
