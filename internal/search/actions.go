package search

import (
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

// Action is one state transition. Apply may leave invariants broken;
// the store normalizes after every action.
type Action interface {
	Apply(state *models.SearchState)
}

type PassengerKind string

const (
	PassengerAdults        PassengerKind = "adults"
	PassengerChildren      PassengerKind = "children"
	PassengerInfantsInSeat PassengerKind = "infantsInSeat"
	PassengerInfantsOnLap  PassengerKind = "infantsOnLap"
)

func (k PassengerKind) Valid() bool {
	switch k {
	case PassengerAdults, PassengerChildren, PassengerInfantsInSeat, PassengerInfantsOnLap:
		return true
	}
	return false
}

func (k PassengerKind) count(p *models.Passengers) *int {
	switch k {
	case PassengerAdults:
		return &p.Adults
	case PassengerChildren:
		return &p.Children
	case PassengerInfantsInSeat:
		return &p.InfantsInSeat
	case PassengerInfantsOnLap:
		return &p.InfantsOnLap
	}
	return nil
}

// SetTripType clears the return date when switching to one way.
type SetTripType struct {
	TripType models.TripType
}

func (a SetTripType) Apply(s *models.SearchState) {
	s.TripType = a.TripType
	if a.TripType == models.TripOneWay {
		s.ReturnDate = ""
	}
}

type SetClassType struct {
	ClassType models.ClassType
}

func (a SetClassType) Apply(s *models.SearchState) {
	s.ClassType = a.ClassType
}

type SetPassengers struct {
	Passengers models.Passengers
}

func (a SetPassengers) Apply(s *models.SearchState) {
	s.Passengers = a.Passengers
}

type IncrementPassenger struct {
	Kind PassengerKind
}

func (a IncrementPassenger) Apply(s *models.SearchState) {
	if n := a.Kind.count(&s.Passengers); n != nil {
		*n++
	}
}

// DecrementPassenger stops at 1 adult and 0 for everyone else.
type DecrementPassenger struct {
	Kind PassengerKind
}

func (a DecrementPassenger) Apply(s *models.SearchState) {
	floor := 0
	if a.Kind == PassengerAdults {
		floor = 1
	}
	if n := a.Kind.count(&s.Passengers); n != nil && *n > floor {
		*n--
	}
}

// SetOrigin with a nil Location clears the field.
type SetOrigin struct {
	Location *models.Location
}

func (a SetOrigin) Apply(s *models.SearchState) {
	s.Origin = a.Location.Clone()
}

type SetDestination struct {
	Location *models.Location
}

func (a SetDestination) Apply(s *models.SearchState) {
	s.Destination = a.Location.Clone()
}

type SetDepartureDate struct {
	Date string
}

func (a SetDepartureDate) Apply(s *models.SearchState) {
	s.DepartureDate = a.Date
}

type SetReturnDate struct {
	Date string
}

func (a SetReturnDate) Apply(s *models.SearchState) {
	s.ReturnDate = a.Date
}

type SwapLocations struct{}

func (SwapLocations) Apply(s *models.SearchState) {
	s.Origin, s.Destination = s.Destination, s.Origin
}

type SetSortBy struct {
	SortBy models.SortBy
}

func (a SetSortBy) Apply(s *models.SearchState) {
	s.SortBy = a.SortBy
}

type SetSearching struct {
	Searching bool
}

func (a SetSearching) Apply(s *models.SearchState) {
	s.IsSearching = a.Searching
}

type SetLocaleSettings struct {
	Locale models.LocaleSettings
}

func (a SetLocaleSettings) Apply(s *models.SearchState) {
	s.Locale = a.Locale
}

type SetLastSearchParams struct {
	Params *models.SearchParams
}

func (a SetLastSearchParams) Apply(s *models.SearchState) {
	if a.Params == nil {
		s.LastSearchParams = nil
		return
	}
	p := *a.Params
	p.Origin = a.Params.Origin.Clone()
	p.Destination = a.Params.Destination.Clone()
	s.LastSearchParams = &p
}

// ResetSearch returns the form to its defaults but keeps the trip type and locale.
type ResetSearch struct{}

func (ResetSearch) Apply(s *models.SearchState) {
	next := models.DefaultSearchState()
	next.TripType = s.TripType
	next.Locale = s.Locale
	*s = next
}

// UpdateFromURL copies the URL-persisted fields of a decoded state.
type UpdateFromURL struct {
	State models.SearchState
}

func (a UpdateFromURL) Apply(s *models.SearchState) {
	s.TripType = a.State.TripType
	s.ClassType = a.State.ClassType
	s.Passengers = a.State.Passengers
	s.Origin = a.State.Origin.Clone()
	s.Destination = a.State.Destination.Clone()
	s.DepartureDate = a.State.DepartureDate
	s.ReturnDate = a.State.ReturnDate
	s.SortBy = a.State.SortBy
}
