// Package urlsync maps search state to and from URL query parameters.
// Only fields that differ from their defaults are written.
package urlsync

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/search"
	"github.com/dharmasatrya/flightexplorer/internal/timeutil"
)

const (
	ParamTripType   = "tripType"
	ParamClass      = "class"
	ParamSortBy     = "sortBy"
	ParamPassengers = "passengers"
	ParamFrom       = "from"
	ParamTo         = "to"
	ParamDeparture  = "departure"
	ParamReturn     = "return"
)

// Params lists every query parameter owned by the search state.
var Params = []string{
	ParamTripType, ParamClass, ParamSortBy, ParamPassengers,
	ParamFrom, ParamTo, ParamDeparture, ParamReturn,
}

func Encode(state models.SearchState) url.Values {
	v := url.Values{}

	if state.TripType != "" && state.TripType != models.TripRoundTrip {
		v.Set(ParamTripType, string(state.TripType))
	}
	if state.ClassType != "" && state.ClassType != models.ClassEconomy {
		v.Set(ParamClass, string(state.ClassType))
	}
	if state.SortBy != "" && state.SortBy != models.SortBest {
		v.Set(ParamSortBy, string(state.SortBy))
	}
	if state.Passengers != models.DefaultPassengers() {
		setJSON(v, ParamPassengers, state.Passengers)
	}
	if state.Origin != nil {
		setJSON(v, ParamFrom, state.Origin)
	}
	if state.Destination != nil {
		setJSON(v, ParamTo, state.Destination)
	}
	if state.DepartureDate != "" {
		v.Set(ParamDeparture, state.DepartureDate)
	}
	if state.ReturnDate != "" && state.TripType != models.TripOneWay {
		v.Set(ParamReturn, state.ReturnDate)
	}
	return v
}

func setJSON(v url.Values, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	v.Set(key, string(data))
}

// Decode never fails: missing or malformed parameters keep their defaults.
func Decode(values url.Values) models.SearchState {
	state, _ := DecodeReport(values)
	return state
}

// DecodeReport is Decode plus a note for every parameter that was ignored.
func DecodeReport(values url.Values) (models.SearchState, []string) {
	state := models.DefaultSearchState()
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	if raw := values.Get(ParamTripType); raw != "" {
		if t := models.TripType(raw); t.Valid() {
			state.TripType = t
		} else {
			warn("%s: unknown value %q", ParamTripType, raw)
		}
	}
	if raw := values.Get(ParamClass); raw != "" {
		if c := models.ClassType(raw); c.Valid() {
			state.ClassType = c
		} else {
			warn("%s: unknown value %q", ParamClass, raw)
		}
	}
	if raw := values.Get(ParamSortBy); raw != "" {
		if s := models.SortBy(raw); s.Valid() {
			state.SortBy = s
		} else {
			warn("%s: unknown value %q", ParamSortBy, raw)
		}
	}

	if raw := values.Get(ParamPassengers); raw != "" {
		var p models.Passengers
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			warn("%s: %v", ParamPassengers, err)
		} else {
			state.Passengers = p
		}
	}

	state.Origin = decodeLocation(values, ParamFrom, warn)
	state.Destination = decodeLocation(values, ParamTo, warn)

	if raw := values.Get(ParamDeparture); raw != "" {
		if timeutil.ValidDate(raw) {
			state.DepartureDate = raw
		} else {
			warn("%s: invalid date %q", ParamDeparture, raw)
		}
	}
	if raw := values.Get(ParamReturn); raw != "" {
		switch {
		case state.TripType == models.TripOneWay:
			warn("%s: ignored for one way trips", ParamReturn)
		case timeutil.ValidDate(raw):
			state.ReturnDate = raw
		default:
			warn("%s: invalid date %q", ParamReturn, raw)
		}
	}

	return search.Normalize(state), warnings
}

func decodeLocation(values url.Values, key string, warn func(string, ...any)) *models.Location {
	raw := values.Get(key)
	if raw == "" {
		return nil
	}
	var loc models.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		warn("%s: %v", key, err)
		return nil
	}
	if strings.TrimSpace(loc.Code) == "" {
		warn("%s: missing code", key)
		return nil
	}
	return &loc
}

// Merge returns base with its state parameters replaced by the encoded state.
// Parameters outside the state (filters, currency overrides) are kept.
func Merge(base url.Values, state models.SearchState) url.Values {
	out := url.Values{}
	for k, vs := range base {
		out[k] = append([]string(nil), vs...)
	}
	for _, p := range Params {
		out.Del(p)
	}
	for k, vs := range Encode(state) {
		out[k] = vs
	}
	return out
}
