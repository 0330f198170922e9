package filter

import (
	"sort"
	"strings"
	"time"

	"github.com/dharmasatrya/flightexplorer/internal/models"
	"github.com/dharmasatrya/flightexplorer/internal/ranking"
	"github.com/dharmasatrya/flightexplorer/internal/timeutil"
)

// Apply narrows and orders fetched itineraries. The input slice is not modified.
func Apply(its []models.Itinerary, filters *models.ResultFilters, sortBy models.SortBy) []models.Itinerary {
	filtered := applyFilters(its, filters)

	if sortBy == models.SortBest || !sortBy.Valid() {
		filtered = ranking.FillScores(filtered)
	}

	return applySort(filtered, sortBy)
}

func applyFilters(its []models.Itinerary, filters *models.ResultFilters) []models.Itinerary {
	result := make([]models.Itinerary, 0, len(its))
	if filters.Empty() {
		return append(result, its...)
	}
	for _, it := range its {
		if matchesFilters(it, filters) {
			result = append(result, it)
		}
	}
	return result
}

func matchesFilters(it models.Itinerary, filters *models.ResultFilters) bool {
	if filters.MaxPrice != nil && it.Price.Raw > *filters.MaxPrice {
		return false
	}

	if filters.MaxStops != nil && it.MaxStops() > *filters.MaxStops {
		return false
	}

	if filters.MaxDuration != nil && it.TotalDuration() > *filters.MaxDuration {
		return false
	}

	if len(filters.Carriers) > 0 && !hasCarrier(it, filters.Carriers) {
		return false
	}

	return true
}

func hasCarrier(it models.Itinerary, carriers []string) bool {
	for _, leg := range it.Legs {
		for _, c := range leg.Carriers.Marketing {
			for _, want := range carriers {
				if strings.EqualFold(c.Name, strings.TrimSpace(want)) {
					return true
				}
			}
		}
	}
	return false
}

func applySort(its []models.Itinerary, sortBy models.SortBy) []models.Itinerary {
	if len(its) == 0 {
		return its
	}

	switch sortBy {
	case models.SortPriceHigh:
		sort.SliceStable(its, func(i, j int) bool {
			return its[i].Price.Raw > its[j].Price.Raw
		})

	case models.SortFastest:
		sort.SliceStable(its, func(i, j int) bool {
			return its[i].TotalDuration() < its[j].TotalDuration()
		})

	case models.SortOutboundTakeOffTime:
		sortByLegTime(its, 0, func(l models.Leg) string { return l.Departure })

	case models.SortOutboundLandingTime:
		sortByLegTime(its, 0, func(l models.Leg) string { return l.Arrival })

	case models.SortReturnTakeOffTime:
		sortByLegTime(its, 1, func(l models.Leg) string { return l.Departure })

	case models.SortReturnLandingTime:
		sortByLegTime(its, 1, func(l models.Leg) string { return l.Arrival })

	default:
		sort.SliceStable(its, func(i, j int) bool {
			return its[i].Score > its[j].Score
		})
	}

	return its
}

// sortByLegTime orders by a timestamp of leg idx. Itineraries without that
// leg, or with an unreadable time, go last.
func sortByLegTime(its []models.Itinerary, idx int, pick func(models.Leg) string) {
	type keyed struct {
		it models.Itinerary
		at time.Time
		ok bool
	}

	entries := make([]keyed, len(its))
	for i, it := range its {
		entries[i].it = it
		if idx >= len(it.Legs) {
			continue
		}
		if t, err := timeutil.Parse(pick(it.Legs[idx])); err == nil {
			entries[i].at, entries[i].ok = t, true
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.ok && b.ok {
			return a.at.Before(b.at)
		}
		return a.ok && !b.ok
	})

	for i := range entries {
		its[i] = entries[i].it
	}
}
