package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightexplorer/internal/apperr"
	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/timeutil"
)

// RawAction is the wire form of an action posted by the browser.
type RawAction struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ActionBatch struct {
	Actions []RawAction `json:"actions" validate:"required,min=1,max=50,dive"`
}

func DecodeActions(raws []RawAction) ([]Action, error) {
	actions := make([]Action, 0, len(raws))
	for i, raw := range raws {
		a, err := DecodeAction(raw)
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("actions[%d]: %s", i, errMessage(err)))
		}
		actions = append(actions, a)
	}
	return actions, nil
}

func DecodeAction(raw RawAction) (Action, error) {
	switch raw.Type {
	case "setTripType":
		v, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		t := models.TripType(v)
		if !t.Valid() {
			return nil, invalid(raw.Type, v)
		}
		return SetTripType{TripType: t}, nil

	case "setClassType":
		v, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		c := models.ClassType(v)
		if !c.Valid() {
			return nil, invalid(raw.Type, v)
		}
		return SetClassType{ClassType: c}, nil

	case "setSortBy":
		v, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		s := models.SortBy(v)
		if !s.Valid() {
			return nil, invalid(raw.Type, v)
		}
		return SetSortBy{SortBy: s}, nil

	case "setPassengers":
		var p models.Passengers
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		return SetPassengers{Passengers: p}, nil

	case "incrementPassenger", "decrementPassenger":
		v, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		kind := PassengerKind(v)
		if !kind.Valid() {
			return nil, invalid(raw.Type, v)
		}
		if raw.Type == "incrementPassenger" {
			return IncrementPassenger{Kind: kind}, nil
		}
		return DecrementPassenger{Kind: kind}, nil

	case "setOrigin", "setDestination":
		var loc *models.Location
		if err := decodePayload(raw, &loc); err != nil {
			return nil, err
		}
		if loc != nil && strings.TrimSpace(loc.Code) == "" {
			return nil, apperr.Validation(raw.Type + ": location code is required")
		}
		if raw.Type == "setOrigin" {
			return SetOrigin{Location: loc}, nil
		}
		return SetDestination{Location: loc}, nil

	case "setDepartureDate", "setReturnDate":
		v, err := decodeString(raw)
		if err != nil {
			return nil, err
		}
		if v != "" && !timeutil.ValidDate(v) {
			return nil, invalid(raw.Type, v)
		}
		if raw.Type == "setDepartureDate" {
			return SetDepartureDate{Date: v}, nil
		}
		return SetReturnDate{Date: v}, nil

	case "swapLocations":
		return SwapLocations{}, nil

	case "setSearching":
		var v bool
		if err := decodePayload(raw, &v); err != nil {
			return nil, err
		}
		return SetSearching{Searching: v}, nil

	case "setLocaleSettings":
		var l models.LocaleSettings
		if err := decodePayload(raw, &l); err != nil {
			return nil, err
		}
		if l.CountryCode == "" || l.Market == "" || l.Currency == "" {
			return nil, apperr.Validation(raw.Type + ": countryCode, market and currency are required")
		}
		return SetLocaleSettings{Locale: l}, nil

	case "setLastSearchParams":
		var p *models.SearchParams
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		return SetLastSearchParams{Params: p}, nil

	case "resetSearch":
		return ResetSearch{}, nil

	case "":
		return nil, apperr.Validation("action type is required")

	default:
		return nil, apperr.Validation(fmt.Sprintf("unknown action type %q", raw.Type))
	}
}

func decodePayload(raw RawAction, out any) error {
	if len(raw.Payload) == 0 {
		return apperr.Validation(raw.Type + ": payload is required")
	}
	if err := json.Unmarshal(raw.Payload, out); err != nil {
		return apperr.Wrap(apperr.KindValidation, raw.Type+": malformed payload", err)
	}
	return nil
}

func decodeString(raw RawAction) (string, error) {
	var v string
	if err := decodePayload(raw, &v); err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func invalid(actionType, value string) error {
	return apperr.Validation(fmt.Sprintf("%s: invalid value %q", actionType, value))
}

func errMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
