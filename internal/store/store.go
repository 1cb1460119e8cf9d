// Package store holds the query state of a search session: the search parameters
// and the outcome of the most recent fetch.
package store

import (
	"slices"
	"sync"

	"github.com/naka-gawa/repo-search/internal/domain"
)

// DefaultFailureMessage is recorded when a fetch fails without a message.
const DefaultFailureMessage = "Failed to fetch repositories"

// State is a point-in-time copy of the store.
type State struct {
	domain.Query
	Status     domain.Status
	Error      string
	Results    []domain.Repository
	TotalCount int
	Selected   *domain.Repository
	// Version increases with every mutation.
	Version uint64
}

// TotalPages returns the number of pages for the current total and page size.
func (s State) TotalPages() int {
	return domain.TotalPages(s.TotalCount, s.PerPage)
}

// Store is the single source of truth for a session. It is safe for concurrent use.
// The zero value is not usable; create one with New.
type Store struct {
	mu        sync.RWMutex
	state     State
	latestSeq uint64

	observersMu sync.Mutex
	observers   map[int]func(State)
	nextID      int
}

// New creates a store whose search parameters start at q and whose status is idle.
func New(q domain.Query) *Store {
	return &Store{
		state: State{
			Query:   q,
			Status:  domain.StatusIdle,
			Results: []domain.Repository{},
		},
		observers: make(map[int]func(State)),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// Query returns the current search parameters.
func (s *Store) Query() domain.Query {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Query
}

// Subscribe registers fn to receive a snapshot after every mutation.
// fn runs outside the store lock and may read the store. Snapshots delivered from
// concurrent mutations can arrive out of order; compare Version to discard older ones.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.observersMu.Lock()
	defer s.observersMu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = fn
	return func() {
		s.observersMu.Lock()
		defer s.observersMu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Store) SetSearchTerm(term string) {
	s.update(func(st *State) { st.Term = term })
}

// SetPage replaces the page. The caller is responsible for bounds.
func (s *Store) SetPage(n int) {
	s.update(func(st *State) { st.Page = n })
}

func (s *Store) SetPerPage(n int) {
	s.update(func(st *State) { st.PerPage = n })
}

func (s *Store) SetSortField(f domain.SortField) {
	s.update(func(st *State) { st.SortField = f })
}

func (s *Store) SetSortOrder(o domain.SortOrder) {
	s.update(func(st *State) { st.SortOrder = o })
}

// SetSort replaces the sort field and order in one mutation.
func (s *Store) SetSort(f domain.SortField, o domain.SortOrder) {
	s.update(func(st *State) {
		st.SortField = f
		st.SortOrder = o
	})
}

// BeginFetch marks a new request as in flight and clears any previous error.
// The returned sequence number identifies the request; only the latest one may
// complete it.
func (s *Store) BeginFetch() uint64 {
	var seq uint64
	s.update(func(st *State) {
		s.latestSeq++
		seq = s.latestSeq
		st.Status = domain.StatusLoading
		st.Error = ""
	})
	return seq
}

// FetchSucceeded records the results of request seq. Results and total count are
// replaced together. It returns false, leaving the state untouched, if a newer
// request has been started since.
func (s *Store) FetchSucceeded(seq uint64, items []domain.Repository, totalCount int) bool {
	return s.updateIf(seq, func(st *State) {
		st.Status = domain.StatusSucceeded
		st.Results = slices.Clone(items)
		if st.Results == nil {
			st.Results = []domain.Repository{}
		}
		st.TotalCount = totalCount
	})
}

// FetchFailed records the failure of request seq. Previous results remain in place.
func (s *Store) FetchFailed(seq uint64, message string) bool {
	if message == "" {
		message = DefaultFailureMessage
	}
	return s.updateIf(seq, func(st *State) {
		st.Status = domain.StatusFailed
		st.Error = message
	})
}

// Select marks the result with the given id as selected for the side panel.
// It returns false if no current result has that id.
func (s *Store) Select(id int64) bool {
	found := false
	s.update(func(st *State) {
		for i := range st.Results {
			if st.Results[i].ID == id {
				repo := st.Results[i]
				st.Selected = &repo
				found = true
				return
			}
		}
	})
	return found
}

func (s *Store) ClearSelection() {
	s.update(func(st *State) { st.Selected = nil })
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	s.state.Version++
	snap := s.copyLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) updateIf(seq uint64, fn func(*State)) bool {
	s.mu.Lock()
	if seq != s.latestSeq {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	s.state.Version++
	snap := s.copyLocked()
	s.mu.Unlock()
	s.notify(snap)
	return true
}

func (s *Store) copyLocked() State {
	snap := s.state
	snap.Results = slices.Clone(s.state.Results)
	if s.state.Selected != nil {
		selected := *s.state.Selected
		snap.Selected = &selected
	}
	return snap
}

func (s *Store) notify(snap State) {
	s.observersMu.Lock()
	fns := make([]func(State), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.observersMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
