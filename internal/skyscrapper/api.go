// Package skyscrapper talks to the sky-scrapper flight API on RapidAPI.
package skyscrapper

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/dharmasatrya/flightexplorer/internal/models"
)

const (
	EndpointConfig   = "getConfig"
	EndpointAirports = "searchAirport"
	EndpointFlights  = "searchFlights"

	DefaultAirportLocale = "en-US"
	DefaultSearchLimit   = 50
)

// API is the read-only surface the rest of the service depends on.
type API interface {
	GetConfig(ctx context.Context) ([]models.LocaleConfig, error)
	SearchAirports(ctx context.Context, query, locale string) ([]models.Airport, error)
	SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, error)
}

// UpstreamError describes a failed call. StatusCode is 0 when no response arrived.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Endpoint + ": "
	if e.StatusCode != 0 {
		msg += fmt.Sprintf("status %d: ", e.StatusCode)
	}
	if e.Message != "" {
		msg += e.Message
	}
	if e.Err != nil {
		if e.Message != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func NewUpstreamError(endpoint string, status int, message string, err error) *UpstreamError {
	return &UpstreamError{
		Endpoint:   endpoint,
		StatusCode: status,
		Message:    message,
		Err:        err,
	}
}

// IsNetworkError reports whether err means the upstream could not be reached at all.
func IsNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
