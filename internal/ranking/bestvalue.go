package ranking

import (
	"math"

	"github.com/dharmasatrya/flightexplorer/internal/models"
)

const (
	PriceWeight    = 0.5
	DurationWeight = 0.3
	StopsWeight    = 0.2
)

// FillScores returns a copy of its where every unscored itinerary gets a
// local best-value score. Upstream scores are kept as they are.
func FillScores(its []models.Itinerary) []models.Itinerary {
	result := make([]models.Itinerary, len(its))
	copy(result, its)
	if len(its) == 0 {
		return result
	}

	maxPrice := findMaxPrice(its)
	maxDuration := findMaxDuration(its)

	for i := range result {
		if result[i].Score == 0 {
			result[i].Score = CalculateBestValue(result[i], maxPrice, maxDuration)
		}
	}
	return result
}

// CalculateBestValue scores from 0 to 1, higher is better, like the upstream score.
func CalculateBestValue(it models.Itinerary, maxPrice, maxDuration float64) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		priceScore = it.Price.Raw / maxPrice
	}

	durationScore := 0.0
	if maxDuration > 0 {
		durationScore = float64(it.TotalDuration()) / maxDuration
	}

	stopsScore := math.Min(float64(it.MaxStops())*0.15, 1)
	cost := (priceScore * PriceWeight) + (durationScore * DurationWeight) + (stopsScore * StopsWeight)

	return math.Round((1-cost)*1000) / 1000
}

func findMaxPrice(its []models.Itinerary) float64 {
	maxPrice := 0.0
	for _, it := range its {
		if it.Price.Raw > maxPrice {
			maxPrice = it.Price.Raw
		}
	}
	return maxPrice
}

func findMaxDuration(its []models.Itinerary) float64 {
	maxDuration := 0.0
	for _, it := range its {
		dur := float64(it.TotalDuration())
		if dur > maxDuration {
			maxDuration = dur
		}
	}
	return maxDuration
}
