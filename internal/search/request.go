package search

import (
	"strings"

	"github.com/dharmasatrya/flightexplorer/internal/apperr"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

// BuildRequest turns a ready state into upstream query parameters.
// Infants in a seat and on a lap are sent as one count.
func BuildRequest(state models.SearchState, limit int) (models.FlightSearchRequest, error) {
	if !state.Ready() {
		return models.FlightSearchRequest{}, apperr.Validation("missing " + strings.Join(missingFields(state), ", "))
	}

	req := models.FlightSearchRequest{
		OriginSkyID:         state.Origin.FlightSkyID(),
		DestinationSkyID:    state.Destination.FlightSkyID(),
		OriginEntityID:      state.Origin.FlightEntityID(),
		DestinationEntityID: state.Destination.FlightEntityID(),
		Date:                state.DepartureDate,
		CabinClass:          state.ClassType,
		Adults:              state.Passengers.Adults,
		Children:            state.Passengers.Children,
		Infants:             state.Passengers.Infants(),
		SortBy:              state.SortBy,
		Limit:               limit,
		Currency:            state.Locale.Currency,
		Market:              state.Locale.Market,
		CountryCode:         state.Locale.CountryCode,
	}
	if state.TripType == models.TripRoundTrip {
		req.ReturnDate = state.ReturnDate
	}
	return req, nil
}

func missingFields(state models.SearchState) []string {
	var missing []string
	if state.Origin == nil {
		missing = append(missing, "origin")
	}
	if state.Destination == nil {
		missing = append(missing, "destination")
	}
	if state.DepartureDate == "" {
		missing = append(missing, "departure date")
	}
	return missing
}
