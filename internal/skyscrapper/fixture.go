package skyscrapper

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightexplorer/internal/models"
)

//go:embed fixtures/*.json
var fixtureFS embed.FS

// FixtureClient serves canned responses so the service runs without an API key.
// Flight results are matched on origin and destination only; dates and cabin
// class are ignored.
type FixtureClient struct {
	configs  []models.LocaleConfig
	airports []models.Airport
	flights  flightsData
}

func NewFixtureClient() (*FixtureClient, error) {
	var configs envelope[[]models.LocaleConfig]
	if err := loadFixture("fixtures/config.json", &configs); err != nil {
		return nil, err
	}
	var airports envelope[[]models.Airport]
	if err := loadFixture("fixtures/airports.json", &airports); err != nil {
		return nil, err
	}
	var flights envelope[flightsData]
	if err := loadFixture("fixtures/flights.json", &flights); err != nil {
		return nil, err
	}
	return &FixtureClient{
		configs:  configs.Data,
		airports: airports.Data,
		flights:  flights.Data,
	}, nil
}

func loadFixture(name string, out any) error {
	raw, err := fixtureFS.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (f *FixtureClient) GetConfig(ctx context.Context) ([]models.LocaleConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]models.LocaleConfig, len(f.configs))
	copy(out, f.configs)
	return out, nil
}

func (f *FixtureClient) SearchAirports(ctx context.Context, query, _ string) ([]models.Airport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var results []models.Airport
	for _, a := range f.airports {
		if strings.Contains(strings.ToLower(a.SkyID), q) ||
			strings.Contains(strings.ToLower(a.Presentation.Title), q) ||
			strings.Contains(strings.ToLower(a.Presentation.Subtitle), q) {
			results = append(results, a)
		}
	}
	return results, nil
}

func (f *FixtureClient) SearchFlights(ctx context.Context, req models.FlightSearchRequest) (*models.FlightSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	var itineraries []models.Itinerary
	for _, it := range f.flights.Itineraries {
		if len(it.Legs) == 0 {
			continue
		}
		leg := it.Legs[0]
		if !strings.EqualFold(leg.Origin.DisplayCode, req.OriginSkyID) ||
			!strings.EqualFold(leg.Destination.DisplayCode, req.DestinationSkyID) {
			continue
		}
		itineraries = append(itineraries, it)
		if len(itineraries) == limit {
			break
		}
	}

	return &models.FlightSearchResult{
		SessionID:           f.flights.Context.SessionID,
		Status:              f.flights.Context.Status,
		TotalResults:        len(itineraries),
		Itineraries:         itineraries,
		FilterStats:         f.flights.FilterStats,
		Token:               f.flights.Token,
		DestinationImageURL: f.flights.DestinationImageURL,
	}, nil
}
