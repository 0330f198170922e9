// Package search holds the flight search form state and the actions that change it.
package search

import (
	"sync"

	"github.com/dharmasatrya/flightexplorer/internal/models"
)

// Store is the single writer of a SearchState. Readers always get copies.
type Store struct {
	mu     sync.RWMutex
	state  models.SearchState
	subs   map[int]func(models.SearchState)
	nextID int
}

func NewStore(initial models.SearchState) *Store {
	return &Store{
		state: Normalize(initial.Clone()),
		subs:  make(map[int]func(models.SearchState)),
	}
}

// NewDefaultStore starts from the default state with the given locale.
func NewDefaultStore(locale models.LocaleSettings) *Store {
	state := models.DefaultSearchState()
	state.Locale = locale
	return NewStore(state)
}

func (s *Store) State() models.SearchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Dispatch applies actions in order and notifies subscribers once with the result.
func (s *Store) Dispatch(actions ...Action) models.SearchState {
	s.mu.Lock()
	for _, a := range actions {
		a.Apply(&s.state)
		s.state = Normalize(s.state)
	}
	snapshot := s.state.Clone()
	subs := make([]func(models.SearchState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot.Clone())
	}
	return snapshot
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (s *Store) Subscribe(fn func(models.SearchState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Normalize restores the state invariants. Unknown enum values fall back to defaults.
func Normalize(state models.SearchState) models.SearchState {
	if !state.TripType.Valid() {
		state.TripType = models.TripRoundTrip
	}
	if !state.ClassType.Valid() {
		state.ClassType = models.ClassEconomy
	}
	if !state.SortBy.Valid() {
		state.SortBy = models.SortBest
	}
	state.Passengers = state.Passengers.Normalize()
	if state.TripType == models.TripOneWay {
		state.ReturnDate = ""
	}
	state.Origin = normalizeLocation(state.Origin)
	state.Destination = normalizeLocation(state.Destination)
	if state.Locale.CountryCode == "" || state.Locale.Market == "" || state.Locale.Currency == "" {
		state.Locale = models.DefaultLocale()
	}
	return state
}

func normalizeLocation(l *models.Location) *models.Location {
	if l == nil || l.Name != "" || l.City == "" {
		return l
	}
	out := *l
	out.Name = out.City
	return &out
}
