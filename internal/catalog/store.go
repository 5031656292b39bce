// Package catalog holds the client-side state behind title autocomplete:
// a cache of the last unfiltered show list and a toolkit-independent
// controller that turns keystrokes into suggestion panels.
//
// Nothing here is safe for concurrent use.  Callers own a single event
// loop and drive every type from it.
package catalog

import (
	"strings"

	"github.com/iliyamo/tv-show-library/internal/model"
)

// Store caches the last list fetched without any filter.  It backs
// suggestions only, so staleness relative to the server is acceptable.
type Store struct {
	shows []model.Show
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

// RefreshIfUnfiltered replaces the snapshot with fetched when neither the
// title nor the status filter is set, and reports whether it did.  A
// narrowed server result never reaches the store.
func (s *Store) RefreshIfUnfiltered(titleFilter, statusFilter string, fetched []model.Show) bool {
	if strings.TrimSpace(titleFilter) != "" || statusFilter != "" {
		return false
	}
	s.shows = clone(fetched)
	return true
}

// All returns a copy of the current snapshot in fetch order.
func (s *Store) All() []model.Show {
	return clone(s.shows)
}

// Len reports the number of cached shows.
func (s *Store) Len() int { return len(s.shows) }

func clone(in []model.Show) []model.Show {
	out := make([]model.Show, len(in))
	copy(out, in)
	return out
}
