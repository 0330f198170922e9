// Package itinerary derives display fields (stops, layovers, labels) from
// upstream itineraries. Inputs are never modified.
package itinerary

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/timeutil"
	"github.com/dharmasatrya/flightexplorer/pkg/currency"
)

type StopAnalysis struct {
	Stops []models.Stop
	// TotalStopMinutes is the leg duration minus time in the air. It is not
	// clamped, so inconsistent upstream data can make it negative.
	TotalStopMinutes int
}

func AnalyzeFlightStops(leg models.Leg) StopAnalysis {
	if len(leg.Segments) <= 1 {
		return StopAnalysis{Stops: []models.Stop{}}
	}

	stops := make([]models.Stop, 0, len(leg.Segments)-1)
	flying := 0
	for _, seg := range leg.Segments {
		flying += seg.DurationInMinutes
		if seg.Destination.FlightPlaceID == leg.Destination.ID {
			continue
		}
		stops = append(stops, toStop(seg.Destination))
	}

	return StopAnalysis{
		Stops:            stops,
		TotalStopMinutes: leg.DurationInMinutes - flying,
	}
}

func toStop(p models.FlightPlace) models.Stop {
	id := p.FlightPlaceID
	if id == "" {
		id = p.DisplayCode
	}
	s := models.Stop{
		ID:      id,
		Name:    p.Name,
		Type:    p.Type,
		Country: p.Country,
	}
	s.Tooltip = StopTooltip(s)
	return s
}

// StopTooltip renders "name, type, country", skipping empty parts.
func StopTooltip(s models.Stop) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.Name, s.Type, s.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// LayoverMinutes is the ground time between an arrival and the next departure.
func LayoverMinutes(arrival, departure string) int {
	arr, err := timeutil.Parse(arrival)
	if err != nil {
		return 0
	}
	dep, err := timeutil.Parse(departure)
	if err != nil {
		return 0
	}
	gap := dep.Sub(arr)
	if gap < 0 {
		return 0
	}
	return int(gap.Minutes())
}

// SegmentLayover returns the layover after segments[i], 0 for the last one.
func SegmentLayover(segments []models.Segment, i int) int {
	if i < 0 || i >= len(segments)-1 {
		return 0
	}
	return LayoverMinutes(segments[i].Arrival, segments[i+1].Departure)
}

func StopsLabel(count int) string {
	if count <= 0 {
		return "Nonstop"
	}
	return fmt.Sprintf("%d %s", count, currency.Pluralize(count, "stop", ""))
}

func DescribeLeg(leg models.Leg) models.LegView {
	analysis := AnalyzeFlightStops(leg)

	segments := make([]models.SegmentView, len(leg.Segments))
	for i, seg := range leg.Segments {
		layover := SegmentLayover(leg.Segments, i)
		view := models.SegmentView{
			Segment:        seg,
			DepartureTime:  timeutil.FormatClock(seg.Departure),
			ArrivalTime:    timeutil.FormatClock(seg.Arrival),
			DepartureFull:  timeutil.FormatFullDateTime(seg.Departure),
			Duration:       currency.FormatDuration(seg.DurationInMinutes),
			LayoverMinutes: layover,
		}
		if i < len(leg.Segments)-1 {
			view.LayoverDuration = currency.FormatDuration(layover)
		}
		segments[i] = view
	}

	carriers := make([]string, 0, len(leg.Carriers.Marketing))
	for _, c := range leg.Carriers.Marketing {
		carriers = append(carriers, c.Name)
	}

	return models.LegView{
		LegID:            leg.ID,
		Origin:           leg.Origin,
		Destination:      leg.Destination,
		DepartureTime:    timeutil.FormatClock(leg.Departure),
		ArrivalTime:      timeutil.FormatClock(leg.Arrival),
		TimeDeltaInDays:  leg.TimeDeltaInDays,
		DurationMinutes:  leg.DurationInMinutes,
		Duration:         currency.FormatDuration(leg.DurationInMinutes),
		StopsLabel:       StopsLabel(leg.StopCount),
		Stops:            analysis.Stops,
		TotalStopMinutes: analysis.TotalStopMinutes,
		Carriers:         carriers,
		Segments:         segments,
	}
}

func Describe(it models.Itinerary, locale models.LocaleSettings) models.ItineraryView {
	legs := make([]models.LegView, len(it.Legs))
	for i, leg := range it.Legs {
		legs[i] = DescribeLeg(leg)
	}

	return models.ItineraryView{
		ID:             it.ID,
		Price:          it.Price,
		PriceFormatted: currency.FormatPrice(it.Price.Raw, locale.Market, locale.Currency),
		Score:          it.Score,
		Tags:           it.Tags,
		IsSelfTransfer: it.IsSelfTransfer,
		FarePolicy:     it.FarePolicy,
		Legs:           legs,
	}
}

func DescribeAll(its []models.Itinerary, locale models.LocaleSettings) []models.ItineraryView {
	views := make([]models.ItineraryView, len(its))
	for i, it := range its {
		views[i] = Describe(it, locale)
	}
	return views
}
