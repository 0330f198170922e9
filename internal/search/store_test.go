package search

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/flightexplorer/internal/apperr"
	"github.com/dharmasatrya/flightexplorer/internal/models"
)

func lagos() *models.Location {
	return &models.Location{Code: "LOS", City: "Lagos", Country: "Nigeria", SkyID: "LOS", EntityID: "95673323"}
}

func london() *models.Location {
	return &models.Location{Code: "LOND", Name: "London", City: "London", Country: "United Kingdom", SkyID: "LOND", EntityID: "27544008"}
}

func TestStore_Defaults(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())
	state := store.State()

	assert.Equal(t, models.TripRoundTrip, state.TripType)
	assert.Equal(t, models.ClassEconomy, state.ClassType)
	assert.Equal(t, models.SortBest, state.SortBy)
	assert.Equal(t, models.Passengers{Adults: 1}, state.Passengers)
	assert.Nil(t, state.Origin)
	assert.False(t, state.Ready())
}

func TestStore_OneWayClearsReturnDate(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())
	store.Dispatch(
		SetDepartureDate{Date: "2025-03-14"},
		SetReturnDate{Date: "2025-03-20"},
	)
	require.Equal(t, "2025-03-20", store.State().ReturnDate)

	state := store.Dispatch(SetTripType{TripType: models.TripOneWay})
	assert.Empty(t, state.ReturnDate)
	assert.Equal(t, "2025-03-14", state.DepartureDate)

	state = store.Dispatch(SetReturnDate{Date: "2025-03-21"})
	assert.Empty(t, state.ReturnDate)
}

func TestStore_PassengerBounds(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())

	state := store.Dispatch(
		DecrementPassenger{Kind: PassengerAdults},
		DecrementPassenger{Kind: PassengerChildren},
		DecrementPassenger{Kind: PassengerInfantsOnLap},
	)
	assert.Equal(t, models.Passengers{Adults: 1}, state.Passengers)

	state = store.Dispatch(
		IncrementPassenger{Kind: PassengerAdults},
		IncrementPassenger{Kind: PassengerChildren},
		IncrementPassenger{Kind: PassengerInfantsInSeat},
		IncrementPassenger{Kind: PassengerInfantsInSeat},
	)
	assert.Equal(t, models.Passengers{Adults: 2, Children: 1, InfantsInSeat: 2}, state.Passengers)

	state = store.Dispatch(SetPassengers{Passengers: models.Passengers{Adults: 0, Children: -3}})
	assert.Equal(t, models.Passengers{Adults: 1}, state.Passengers)
}

func TestStore_SwapAndLocationNames(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())
	store.Dispatch(SetOrigin{Location: lagos()}, SetDestination{Location: london()})

	state := store.State()
	assert.Equal(t, "Lagos", state.Origin.Name)

	state = store.Dispatch(SwapLocations{})
	assert.Equal(t, "LOND", state.Origin.Code)
	assert.Equal(t, "LOS", state.Destination.Code)

	state = store.Dispatch(SetOrigin{Location: nil})
	assert.Nil(t, state.Origin)
}

func TestStore_ResetKeepsTripTypeAndLocale(t *testing.T) {
	ng := models.LocaleSettings{CountryCode: "NG", Market: "en-GB", Currency: "NGN"}
	store := NewDefaultStore(ng)
	store.Dispatch(
		SetTripType{TripType: models.TripOneWay},
		SetClassType{ClassType: models.ClassBusiness},
		SetOrigin{Location: lagos()},
		SetSortBy{SortBy: models.SortFastest},
		SetSearching{Searching: true},
	)

	state := store.Dispatch(ResetSearch{})
	assert.Equal(t, models.TripOneWay, state.TripType)
	assert.Equal(t, ng, state.Locale)
	assert.Equal(t, models.ClassEconomy, state.ClassType)
	assert.Equal(t, models.SortBest, state.SortBy)
	assert.Nil(t, state.Origin)
	assert.False(t, state.IsSearching)
}

func TestStore_UpdateFromURL(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())
	store.Dispatch(SetSearching{Searching: true})

	decoded := models.DefaultSearchState()
	decoded.ClassType = models.ClassFirst
	decoded.Origin = lagos()
	decoded.DepartureDate = "2025-03-14"
	decoded.Locale = models.LocaleSettings{CountryCode: "DE", Market: "de-DE", Currency: "EUR"}

	state := store.Dispatch(UpdateFromURL{State: decoded})
	assert.Equal(t, models.ClassFirst, state.ClassType)
	assert.Equal(t, "LOS", state.Origin.Code)
	assert.True(t, state.IsSearching)
	assert.Equal(t, models.DefaultLocale(), state.Locale)
}

func TestStore_SnapshotsAreCopies(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())
	loc := lagos()
	store.Dispatch(SetOrigin{Location: loc})

	loc.Code = "XXX"
	state := store.State()
	state.Origin.Code = "YYY"

	assert.Equal(t, "LOS", store.State().Origin.Code)
}

func TestStore_LastSearchParams(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())
	store.Dispatch(SetOrigin{Location: lagos()}, SetDestination{Location: london()}, SetDepartureDate{Date: "2025-03-14"})

	params := store.State().Params()
	state := store.Dispatch(SetLastSearchParams{Params: &params})
	require.NotNil(t, state.LastSearchParams)
	assert.Equal(t, "LOS", state.LastSearchParams.Origin.Code)

	state = store.Dispatch(SetLastSearchParams{})
	assert.Nil(t, state.LastSearchParams)
}

func TestStore_Subscribe(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())

	var got []models.SortBy
	unsubscribe := store.Subscribe(func(s models.SearchState) {
		got = append(got, s.SortBy)
	})

	store.Dispatch(SetSortBy{SortBy: models.SortFastest})
	store.Dispatch(SetSortBy{SortBy: models.SortPriceHigh}, SetClassType{ClassType: models.ClassFirst})
	unsubscribe()
	store.Dispatch(SetSortBy{SortBy: models.SortBest})

	assert.Equal(t, []models.SortBy{models.SortFastest, models.SortPriceHigh}, got)
}

func TestStore_ConcurrentDispatch(t *testing.T) {
	store := NewDefaultStore(models.DefaultLocale())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(IncrementPassenger{Kind: PassengerChildren})
			_ = store.State()
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.State().Passengers.Children)
}

func TestNormalize_UnknownEnums(t *testing.T) {
	state := Normalize(models.SearchState{
		TripType:  "multi_city",
		ClassType: "luxury",
		SortBy:    "cheapest",
	})

	assert.Equal(t, models.TripRoundTrip, state.TripType)
	assert.Equal(t, models.ClassEconomy, state.ClassType)
	assert.Equal(t, models.SortBest, state.SortBy)
	assert.Equal(t, 1, state.Passengers.Adults)
	assert.Equal(t, models.DefaultLocale(), state.Locale)
}

func TestDecodeAction(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Action
		wantErr bool
	}{
		{name: "trip type", raw: `{"type":"setTripType","payload":"one_way"}`, want: SetTripType{TripType: models.TripOneWay}},
		{name: "bad trip type", raw: `{"type":"setTripType","payload":"multi"}`, wantErr: true},
		{name: "class", raw: `{"type":"setClassType","payload":"business"}`, want: SetClassType{ClassType: models.ClassBusiness}},
		{name: "sort", raw: `{"type":"setSortBy","payload":"fastest"}`, want: SetSortBy{SortBy: models.SortFastest}},
		{name: "increment", raw: `{"type":"incrementPassenger","payload":"children"}`, want: IncrementPassenger{Kind: PassengerChildren}},
		{name: "decrement", raw: `{"type":"decrementPassenger","payload":"infantsOnLap"}`, want: DecrementPassenger{Kind: PassengerInfantsOnLap}},
		{name: "bad passenger kind", raw: `{"type":"incrementPassenger","payload":"pets"}`, wantErr: true},
		{name: "departure", raw: `{"type":"setDepartureDate","payload":"2025-03-14"}`, want: SetDepartureDate{Date: "2025-03-14"}},
		{name: "clear return", raw: `{"type":"setReturnDate","payload":""}`, want: SetReturnDate{}},
		{name: "bad date", raw: `{"type":"setDepartureDate","payload":"14/03/2025"}`, wantErr: true},
		{name: "swap", raw: `{"type":"swapLocations"}`, want: SwapLocations{}},
		{name: "reset", raw: `{"type":"resetSearch"}`, want: ResetSearch{}},
		{name: "searching", raw: `{"type":"setSearching","payload":true}`, want: SetSearching{Searching: true}},
		{name: "clear origin", raw: `{"type":"setOrigin","payload":null}`, want: SetOrigin{}},
		{name: "origin without code", raw: `{"type":"setOrigin","payload":{"city":"Lagos"}}`, wantErr: true},
		{name: "locale", raw: `{"type":"setLocaleSettings","payload":{"countryCode":"NG","market":"en-GB","currency":"NGN"}}`,
			want: SetLocaleSettings{Locale: models.LocaleSettings{CountryCode: "NG", Market: "en-GB", Currency: "NGN"}}},
		{name: "partial locale", raw: `{"type":"setLocaleSettings","payload":{"countryCode":"NG"}}`, wantErr: true},
		{name: "missing payload", raw: `{"type":"setClassType"}`, wantErr: true},
		{name: "malformed payload", raw: `{"type":"setPassengers","payload":"two"}`, wantErr: true},
		{name: "unknown", raw: `{"type":"bookFlight"}`, wantErr: true},
		{name: "empty type", raw: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw RawAction
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &raw))

			got, err := DecodeAction(raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperr.Is(err, apperr.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeAction_Origin(t *testing.T) {
	raw := RawAction{Type: "setOrigin", Payload: json.RawMessage(`{"code":"LOS","city":"Lagos","country":"Nigeria"}`)}

	got, err := DecodeAction(raw)
	require.NoError(t, err)

	origin, ok := got.(SetOrigin)
	require.True(t, ok)
	assert.Equal(t, "LOS", origin.Location.Code)
}

func TestDecodeActions_ReportsIndex(t *testing.T) {
	_, err := DecodeActions([]RawAction{
		{Type: "swapLocations"},
		{Type: "setSortBy", Payload: json.RawMessage(`"cheapest"`)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "actions[1]")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestBuildRequest(t *testing.T) {
	state := models.DefaultSearchState()
	state.Origin = lagos()
	state.Destination = &models.Location{Code: "LHR", City: "London"}
	state.DepartureDate = "2025-03-14"
	state.ReturnDate = "2025-03-20"
	state.Passengers = models.Passengers{Adults: 2, Children: 1, InfantsInSeat: 1, InfantsOnLap: 1}
	state.Locale = models.LocaleSettings{CountryCode: "NG", Market: "en-GB", Currency: "NGN"}

	req, err := BuildRequest(state, 25)
	require.NoError(t, err)
	assert.Equal(t, "LOS", req.OriginSkyID)
	assert.Equal(t, "95673323", req.OriginEntityID)
	assert.Equal(t, "LHR", req.DestinationSkyID)
	assert.Equal(t, "LHR", req.DestinationEntityID)
	assert.Equal(t, "2025-03-20", req.ReturnDate)
	assert.Equal(t, 2, req.Infants)
	assert.Equal(t, 25, req.Limit)
	assert.Equal(t, "NGN", req.Currency)

	state.TripType = models.TripOneWay
	req, err = BuildRequest(state, 25)
	require.NoError(t, err)
	assert.Empty(t, req.ReturnDate)
}

func TestBuildRequest_MissingFields(t *testing.T) {
	state := models.DefaultSearchState()
	state.Origin = lagos()

	_, err := BuildRequest(state, 50)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Contains(t, err.Error(), "destination, departure date")
}
