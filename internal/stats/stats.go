package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/rm-hull/prix-carburants-api/internal/models"
)

// Derive summarises the prices of a result set per fuel. Prices are in euros;
// distribution buckets are in cents, bucketSize cents wide.
func Derive(stations []*models.Station, bucketSize int) *models.SearchStatistics {
	if bucketSize <= 0 {
		bucketSize = 5
	}
	stats := &models.SearchStatistics{
		CheapestStations:  make(map[string][]string),
		LowestPrice:       make(map[string]float64),
		AveragePrice:      make(map[string]float64),
		HighestPrice:      make(map[string]float64),
		PriceDistribution: make(map[string]map[string]int),
		StandardDeviation: make(map[string]float64),
		BrandDistribution: make(map[string]int),
	}

	fuelTypePrices := make(map[string][]float64)
	fuelTypeStations := make(map[string]map[float64][]string) // price -> station ids

	for _, station := range stations {
		for fuelType, price := range station.Prices {
			fuelTypePrices[fuelType] = append(fuelTypePrices[fuelType], price.Amount)

			if fuelTypeStations[fuelType] == nil {
				fuelTypeStations[fuelType] = make(map[float64][]string)
			}
			fuelTypeStations[fuelType][price.Amount] = append(fuelTypeStations[fuelType][price.Amount], station.ID)
		}
		stats.BrandDistribution[station.Brand]++
	}

	for fuelType, prices := range fuelTypePrices {
		lowestPrice := prices[0]
		highestPrice := prices[0]
		sum := 0.0

		for _, p := range prices {
			lowestPrice = min(lowestPrice, p)
			highestPrice = max(highestPrice, p)
			sum += p
		}
		stats.LowestPrice[fuelType] = lowestPrice
		stats.HighestPrice[fuelType] = highestPrice

		cheapest := fuelTypeStations[fuelType][lowestPrice]
		sort.Strings(cheapest)
		stats.CheapestStations[fuelType] = cheapest

		avgPrice := sum / float64(len(prices))
		stats.AveragePrice[fuelType] = math.Round(avgPrice*1000) / 1000

		if len(prices) > 1 {
			variance := 0.0
			for _, p := range prices {
				variance += math.Pow(p-avgPrice, 2)
			}
			variance /= float64(len(prices))
			stats.StandardDeviation[fuelType] = math.Sqrt(variance)
		}

		stats.PriceDistribution[fuelType] = make(map[string]int)
		for _, p := range prices {
			cents := int(math.Round(p * 100))
			bucketStart := (cents / bucketSize) * bucketSize
			bucketEnd := bucketStart + bucketSize - 1
			bucketKey := fmt.Sprintf("%d-%d", bucketStart, bucketEnd)
			stats.PriceDistribution[fuelType][bucketKey]++
		}
	}

	return stats
}
